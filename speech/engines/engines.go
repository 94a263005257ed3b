// Package engines builds the configured speech backend.
package engines

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"

	"github.com/dgnsrekt/readalong/config"
	"github.com/dgnsrekt/readalong/internal/cache"
	"github.com/dgnsrekt/readalong/speech"
	"github.com/dgnsrekt/readalong/speech/audio"
	"github.com/dgnsrekt/readalong/speech/engines/command"
	"github.com/dgnsrekt/readalong/speech/engines/mock"
	"github.com/dgnsrekt/readalong/speech/engines/piper"
)

const megabyte = 1 << 20

// New creates the backend selected by cfg.Engine.
func New(cfg config.Config) (speech.Backend, error) {
	log.Debug("Creating speech engine", "engine", cfg.Engine)

	switch cfg.Engine {
	case config.EngineMock:
		return mock.New(cfg.Mock), nil
	case config.EngineCommand:
		return command.New(cfg.Command)
	case config.EnginePiper:
		c, err := newCache(cfg.Cache)
		if err != nil {
			return nil, err
		}
		engine, err := piper.New(cfg.Piper, audio.NewPlayer(), c)
		if err != nil {
			if c != nil {
				_ = c.Close()
			}
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("%w: %q", speech.ErrUnknownEngine, cfg.Engine)
	}
}

// newCache returns nil when caching is disabled.
func newCache(cfg config.CacheConfig) (*cache.Manager, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	dir, err := CacheDir(cfg)
	if err != nil {
		return nil, err
	}

	return cache.NewManager(cache.Options{
		MemoryCapacity:   int64(cfg.MemoryMB) * megabyte,
		DiskCapacity:     int64(cfg.DiskMB) * megabyte,
		DiskPath:         dir,
		CompressionLevel: cfg.CompressionLevel,
	})
}

// CacheDir returns the configured cache directory, or the audio directory
// under the user cache dir.
func CacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	dir, err := gap.NewScope(gap.User, "readalong").CacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to find cache directory: %w", err)
	}
	return filepath.Join(dir, "audio"), nil
}
