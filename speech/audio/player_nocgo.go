//go:build nocgo
// +build nocgo

package audio

import (
	"context"

	"github.com/dgnsrekt/readalong/speech"
)

// OtoPlayer is unavailable in nocgo builds.
type OtoPlayer struct{}

// NewPlayer returns a player that always fails in nocgo builds.
func NewPlayer() Player {
	return &OtoPlayer{}
}

// Play reports that audio output is unavailable.
func (p *OtoPlayer) Play(ctx context.Context, pcm []byte) error {
	return speech.ErrAudioUnavailable
}
