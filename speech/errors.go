package speech

import (
	"errors"
	"fmt"
)

// Common errors for speech backends.
var (
	// ErrEngineNotAvailable is returned when a backend's dependencies are missing.
	ErrEngineNotAvailable = errors.New("speech engine is not available")
	// ErrUnknownEngine is returned for an engine name with no implementation.
	ErrUnknownEngine = errors.New("unknown speech engine")
	// ErrAudioUnavailable is returned when no audio output device can be opened.
	ErrAudioUnavailable = errors.New("audio output is not available")
	// ErrInvalidAudio is returned for PCM data the player cannot handle.
	ErrInvalidAudio = errors.New("invalid audio data")
)

// SpeechError is a backend failure while voicing one utterance. It is fatal
// to the playback run that issued it.
type SpeechError struct {
	Engine string // Backend that failed
	Text   string // Utterance being voiced
	Err    error  // Underlying backend error
}

// Error implements the error interface.
func (e *SpeechError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: speaking %q failed", e.Engine, e.Text)
	}
	return fmt.Sprintf("%s: speaking %q failed: %v", e.Engine, e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *SpeechError) Unwrap() error {
	return e.Err
}

// IsSpeechError reports whether err is, or wraps, a *SpeechError.
func IsSpeechError(err error) bool {
	var se *SpeechError
	return errors.As(err, &se)
}
