// Package audio plays raw PCM produced by speech engines.
package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/dgnsrekt/readalong/speech"
)

// Audio format shared by every engine that produces PCM.
const (
	// SampleRate is the sample rate in Hz.
	SampleRate = 22050
	// Channels is the channel count (mono).
	Channels = 1
	// BytesPerSample is the size of one 16-bit sample.
	BytesPerSample = 2
)

const pollInterval = 10 * time.Millisecond

// Player plays one PCM buffer at a time.
type Player interface {
	// Play blocks until pcm finishes playing or ctx is cancelled.
	Play(ctx context.Context, pcm []byte) error
}

// Validate checks that pcm is non-empty 16-bit sample data.
func Validate(pcm []byte) error {
	if len(pcm) == 0 {
		return fmt.Errorf("%w: empty buffer", speech.ErrInvalidAudio)
	}
	if len(pcm)%BytesPerSample != 0 {
		return fmt.Errorf("%w: %d bytes is not aligned to %d-byte samples",
			speech.ErrInvalidAudio, len(pcm), BytesPerSample)
	}
	return nil
}

// Duration returns the playing time of pcm.
func Duration(pcm []byte) time.Duration {
	samples := len(pcm) / BytesPerSample / Channels
	return time.Duration(samples) * time.Second / SampleRate
}
