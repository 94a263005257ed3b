package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/readalong/config"
	"github.com/dgnsrekt/readalong/speech"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestNewMissingBinary(t *testing.T) {
	_, err := New(config.CommandConfig{Binary: "readalong-no-such-binary"})
	if !errors.Is(err, speech.ErrEngineNotAvailable) {
		t.Errorf("New = %v, want ErrEngineNotAvailable", err)
	}
}

func TestUtterSuccess(t *testing.T) {
	requireBinary(t, "true")

	engine, err := New(config.CommandConfig{Binary: "true"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := engine.Utter(context.Background(), "hello"); err != nil {
		t.Errorf("Utter = %v", err)
	}
}

func TestUtterFailure(t *testing.T) {
	requireBinary(t, "false")

	engine, err := New(config.CommandConfig{Binary: "false"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := engine.Utter(context.Background(), "hello"); err == nil {
		t.Error("expected an error from a failing command")
	}
}

func TestUtterCancelKillsProcess(t *testing.T) {
	requireBinary(t, "sleep")

	// sleep sums its operands after "--", so the word "0" leaves 30s intact.
	engine, err := New(config.CommandConfig{Binary: "sleep", Args: []string{"30"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = engine.Utter(ctx, "0")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Utter = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Utter took %v after cancel", elapsed)
	}
}

// getoptSpeaker writes a fake speech command that rejects unknown options
// the way espeak-ng does and logs the words it would speak.
func getoptSpeaker(t *testing.T) (binary, spoken string) {
	t.Helper()
	requireBinary(t, "sh")

	dir := t.TempDir()
	binary = filepath.Join(dir, "speak")
	spoken = filepath.Join(dir, "spoken")
	script := `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    --) shift; break ;;
    -v) shift 2 ;;
    -*) echo "unknown option $1" >&2; exit 1 ;;
    *) break ;;
  esac
done
printf '%s\n' "$*" >> ` + spoken + "\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binary, spoken
}

func TestUtterDashLeadingWords(t *testing.T) {
	binary, spoken := getoptSpeaker(t)

	engine, err := New(config.CommandConfig{Binary: binary, Args: []string{"-v", "en"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	words := []string{"hello", "-", "-n", "--help"}
	for _, w := range words {
		if err := engine.Utter(context.Background(), w); err != nil {
			t.Errorf("Utter(%q) = %v", w, err)
		}
	}

	data, err := os.ReadFile(spoken)
	if err != nil {
		t.Fatalf("reading spoken log: %v", err)
	}
	got := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(got) != len(words) {
		t.Fatalf("spoken = %q, want %q", got, words)
	}
	for i := range words {
		if got[i] != words[i] {
			t.Errorf("word %d spoken as %q, want %q", i, got[i], words[i])
		}
	}
}
