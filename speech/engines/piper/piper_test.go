package piper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/readalong/config"
	"github.com/dgnsrekt/readalong/internal/cache"
	"github.com/dgnsrekt/readalong/speech"
)

// fakePlayer records played buffers instead of opening an audio device.
type fakePlayer struct {
	mu     sync.Mutex
	played [][]byte
	err    error
}

func (p *fakePlayer) Play(ctx context.Context, pcm []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, pcm)
	return p.err
}

// writeScript installs a shell script standing in for the piper binary. It
// appends every invocation to a log so tests can count synthesis calls.
func writeScript(t *testing.T, body string) (binary, model, calls string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}

	dir := t.TempDir()
	calls = filepath.Join(dir, "calls.log")
	binary = filepath.Join(dir, "piper")
	script := "#!/bin/sh\necho run >> " + calls + "\n" + body + "\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	model = filepath.Join(dir, "en_US-test-medium.onnx")
	if err := os.WriteFile(model, []byte("onnx"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return binary, model, calls
}

func countCalls(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("read calls: %v", err)
	}
	return strings.Count(string(data), "run")
}

func newEngine(t *testing.T, binary, model string, player *fakePlayer, c *cache.Manager) *Engine {
	t.Helper()
	engine, err := New(config.PiperConfig{Binary: binary, Model: model, Timeout: 5 * time.Second}, player, c)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return engine
}

func TestNewMissingDependencies(t *testing.T) {
	binary, model, _ := writeScript(t, "exit 0")

	tests := []struct {
		name string
		cfg  config.PiperConfig
	}{
		{"missing binary", config.PiperConfig{Binary: "readalong-no-such-piper", Model: model}},
		{"missing model", config.PiperConfig{Binary: binary, Model: filepath.Join(t.TempDir(), "nope.onnx")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, &fakePlayer{}, nil)
			if !errors.Is(err, speech.ErrEngineNotAvailable) {
				t.Errorf("New = %v, want ErrEngineNotAvailable", err)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Errorf("error should be a *piper.Error, got %T", err)
			}
		})
	}
}

func TestSynthesize(t *testing.T) {
	binary, model, _ := writeScript(t, "cat > /dev/null\nprintf 'abcd'")
	engine := newEngine(t, binary, model, &fakePlayer{}, nil)

	pcm, err := engine.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(pcm) != "abcd" {
		t.Errorf("pcm = %q, want %q", pcm, "abcd")
	}
}

func TestSynthesizePadsOddOutput(t *testing.T) {
	binary, model, _ := writeScript(t, "cat > /dev/null\nprintf 'abc'")
	engine := newEngine(t, binary, model, &fakePlayer{}, nil)

	pcm, err := engine.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(pcm) != 4 {
		t.Errorf("len(pcm) = %d, want 4", len(pcm))
	}
}

func TestSynthesizeFailureReportsStderr(t *testing.T) {
	binary, model, _ := writeScript(t, "echo 'bad model' >&2\nexit 1")
	engine := newEngine(t, binary, model, &fakePlayer{}, nil)

	_, err := engine.Synthesize(context.Background(), "hello")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Type != "synthesis" || !strings.Contains(perr.Message, "bad model") {
		t.Errorf("unexpected error: %v", perr)
	}
}

func TestSynthesizeEmptyOutput(t *testing.T) {
	binary, model, _ := writeScript(t, "cat > /dev/null")
	engine := newEngine(t, binary, model, &fakePlayer{}, nil)

	if _, err := engine.Synthesize(context.Background(), "hello"); !errors.Is(err, speech.ErrInvalidAudio) {
		t.Errorf("Synthesize = %v, want ErrInvalidAudio", err)
	}
}

func TestSynthesizeCancelled(t *testing.T) {
	binary, model, _ := writeScript(t, "sleep 30")
	engine := newEngine(t, binary, model, &fakePlayer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	if _, err := engine.Synthesize(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Synthesize = %v, want context.Canceled", err)
	}
}

func TestUtterUsesCache(t *testing.T) {
	binary, model, calls := writeScript(t, "cat > /dev/null\nprintf 'wxyz'")

	c, err := cache.NewManager(cache.Options{MemoryCapacity: 1024})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer c.Close() //nolint:errcheck

	player := &fakePlayer{}
	engine := newEngine(t, binary, model, player, c)

	for i := 0; i < 3; i++ {
		if err := engine.Utter(context.Background(), "again"); err != nil {
			t.Fatalf("Utter %d failed: %v", i, err)
		}
	}

	if n := countCalls(t, calls); n != 1 {
		t.Errorf("piper ran %d times, want 1", n)
	}
	if len(player.played) != 3 {
		t.Errorf("played %d buffers, want 3", len(player.played))
	}

	// A different word is a miss.
	_ = engine.Utter(context.Background(), "other")
	if n := countCalls(t, calls); n != 2 {
		t.Errorf("piper ran %d times, want 2", n)
	}
}

func TestUtterPlayerError(t *testing.T) {
	binary, model, _ := writeScript(t, "cat > /dev/null\nprintf 'wxyz'")
	player := &fakePlayer{err: speech.ErrAudioUnavailable}
	engine := newEngine(t, binary, model, player, nil)

	if err := engine.Utter(context.Background(), "hello"); !errors.Is(err, speech.ErrAudioUnavailable) {
		t.Errorf("Utter = %v, want ErrAudioUnavailable", err)
	}
}

func TestVoice(t *testing.T) {
	binary, model, _ := writeScript(t, "exit 0")
	engine := newEngine(t, binary, model, &fakePlayer{}, nil)

	if got := engine.Voice(); got != "en_US-test-medium#0" {
		t.Errorf("Voice = %q", got)
	}
}
