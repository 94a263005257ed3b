// Package piper voices words with the Piper neural TTS binary. Piper renders
// raw 16-bit PCM which is cached and then played through an audio.Player.
package piper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readalong/config"
	"github.com/dgnsrekt/readalong/internal/cache"
	"github.com/dgnsrekt/readalong/speech"
	"github.com/dgnsrekt/readalong/speech/audio"
)

// Error represents a Piper-specific failure.
type Error struct {
	Type    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("piper %s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("piper %s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

const waitDelay = time.Second

// Engine synthesizes each utterance with a Piper subprocess.
type Engine struct {
	binaryPath string
	modelPath  string
	voiceName  string
	speaker    int
	timeout    time.Duration

	player audio.Player
	cache  *cache.Manager // optional
}

// New validates cfg and returns an engine that plays through player. cache
// may be nil.
func New(cfg config.PiperConfig, player audio.Player, c *cache.Manager) (*Engine, error) {
	binary, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, &Error{
			Type:    "dependency",
			Message: fmt.Sprintf("piper binary %q not found. Please install piper TTS: https://github.com/rhasspy/piper", cfg.Binary),
			Cause:   errors.Join(speech.ErrEngineNotAvailable, err),
		}
	}

	if _, err := os.Stat(cfg.Model); err != nil {
		return nil, &Error{
			Type:    "model",
			Message: fmt.Sprintf("model file not found: %s", cfg.Model),
			Cause:   errors.Join(speech.ErrEngineNotAvailable, err),
		}
	}

	return &Engine{
		binaryPath: binary,
		modelPath:  cfg.Model,
		voiceName:  filepath.Base(strings.TrimSuffix(cfg.Model, ".onnx")),
		speaker:    cfg.Speaker,
		timeout:    cfg.Timeout,
		player:     player,
		cache:      c,
	}, nil
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return config.EnginePiper
}

// Voice returns the model name, used to key cached audio.
func (e *Engine) Voice() string {
	return e.voiceName + "#" + strconv.Itoa(e.speaker)
}

// Utter synthesizes text (or fetches it from the cache) and plays it.
func (e *Engine) Utter(ctx context.Context, text string) error {
	pcm, err := e.audioFor(ctx, text)
	if err != nil {
		return err
	}
	return e.player.Play(ctx, pcm)
}

func (e *Engine) audioFor(ctx context.Context, text string) ([]byte, error) {
	var key string
	if e.cache != nil {
		key = cache.Key(e.Name(), e.Voice(), text)
		if pcm, level, ok := e.cache.Get(key); ok {
			log.Debug("Audio cache hit", "text", text, "level", level)
			return pcm, nil
		}
	}

	pcm, err := e.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Put(key, pcm); err != nil {
			log.Warn("Failed to cache audio", "text", text, "error", err)
		}
	}
	return pcm, nil
}

// Synthesize renders text to raw PCM with a single Piper process.
func (e *Engine) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := []string{
		"--model", e.modelPath,
		"--output_raw",
	}
	if e.speaker > 0 {
		args = append(args, "--speaker", strconv.Itoa(e.speaker))
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)

	// Set stdin before starting the process.
	cmd.Stdin = strings.NewReader(text)

	var pcm, stderr bytes.Buffer
	cmd.Stdout = &pcm
	cmd.Stderr = &stderr
	// Children of a killed piper may hold stdout open.
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded) && time.Since(start) >= e.timeout:
			return nil, &Error{
				Type:    "timeout",
				Message: fmt.Sprintf("synthesis timed out after %v", e.timeout),
				Cause:   err,
			}
		case ctx.Err() != nil:
			return nil, ctx.Err()
		}

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, &Error{Type: "synthesis", Message: msg, Cause: err}
		}
		return nil, &Error{Type: "synthesis", Message: "synthesis failed", Cause: err}
	}

	data := pcm.Bytes()
	// Pad a trailing half sample.
	if len(data)%audio.BytesPerSample != 0 {
		data = append(data, 0)
	}
	if err := audio.Validate(data); err != nil {
		return nil, &Error{Type: "synthesis", Message: "no usable audio generated", Cause: err}
	}

	log.Debug("Synthesized utterance", "text", text, "bytes", len(data), "audio", audio.Duration(data), "took", time.Since(start))
	return data, nil
}

// Close flushes the audio cache.
func (e *Engine) Close() error {
	if e.cache != nil {
		return e.cache.Close()
	}
	return nil
}
