//go:build !nocgo
// +build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"

	"github.com/dgnsrekt/readalong/speech"
)

// oto allows a single context per process.
var (
	globalContext *oto.Context
	contextErr    error
	contextOnce   sync.Once
)

func audioContext() (*oto.Context, error) {
	contextOnce.Do(func() {
		options := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		switch runtime.GOOS {
		case "darwin":
			options.BufferSize = 100 * time.Millisecond
		default:
			options.BufferSize = 50 * time.Millisecond
		}

		c, ready, err := oto.NewContext(options)
		if err != nil {
			contextErr = fmt.Errorf("%w: %v", speech.ErrAudioUnavailable, err)
			return
		}
		<-ready
		globalContext = c
		log.Debug("Audio context ready", "sampleRate", SampleRate, "bufferSize", options.BufferSize)
	})
	return globalContext, contextErr
}

// OtoPlayer plays PCM through the system audio device.
type OtoPlayer struct {
	// Only one utterance plays at a time.
	mu sync.Mutex
}

// NewPlayer returns a Player backed by oto.
func NewPlayer() Player {
	return &OtoPlayer{}
}

// Play blocks until pcm has been played or ctx is cancelled. On
// cancellation the oto player is paused and closed before returning.
func (p *OtoPlayer) Play(ctx context.Context, pcm []byte) error {
	if err := Validate(pcm); err != nil {
		return err
	}

	c, err := audioContext()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	player := c.NewPlayer(bytes.NewReader(pcm))
	defer player.Close() //nolint:errcheck

	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				return player.Err()
			}
		}
	}
}
