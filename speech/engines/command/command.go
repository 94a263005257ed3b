// Package command voices words through the platform's speech command:
// say on macOS, espeak-ng or espeak elsewhere.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/dgnsrekt/readalong/config"
	"github.com/dgnsrekt/readalong/speech"
)

// Engine runs one speech process per utterance.
type Engine struct {
	binary string
	args   []string
}

// candidates returns the binaries tried when none is configured.
func candidates() []string {
	if runtime.GOOS == "darwin" {
		return []string{"say"}
	}
	return []string{"espeak-ng", "espeak"}
}

// New resolves the speech binary from cfg or the platform defaults.
func New(cfg config.CommandConfig) (*Engine, error) {
	names := candidates()
	if cfg.Binary != "" {
		names = []string{cfg.Binary}
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return &Engine{binary: path, args: cfg.Args}, nil
		}
	}
	return nil, fmt.Errorf("%w: none of %s found in PATH",
		speech.ErrEngineNotAvailable, strings.Join(names, ", "))
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return config.EngineCommand
}

// Utter runs the speech command with text as its final argument, after a
// "--" so words such as "-n" are not read as options. The process is
// killed when ctx is cancelled.
func (e *Engine) Utter(ctx context.Context, text string) error {
	args := append(append([]string(nil), e.args...), "--", text)
	cmd := exec.CommandContext(ctx, e.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s: %w", e.binary, msg, err)
		}
		return fmt.Errorf("%s: %w", e.binary, err)
	}
	return nil
}
