// Package speech voices single words through a pluggable text-to-speech
// backend. Driver.Speak blocks until the backend reports that the utterance
// has finished playing, and abandons it when its context is cancelled.
package speech

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Backend is a text-to-speech engine.
type Backend interface {
	// Utter voices text and returns once audible playback has ended.
	// When ctx is cancelled the backend must discard the utterance and
	// return promptly with ctx.Err().
	Utter(ctx context.Context, text string) error

	// Name returns the engine name used in logs and errors.
	Name() string
}

// Driver serializes utterances on a backend and classifies its failures.
type Driver struct {
	backend Backend

	// Only one utterance is in flight at a time.
	mu sync.Mutex

	stats Stats
}

// Stats summarizes utterances issued through a Driver.
type Stats struct {
	Utterances int           // Completed utterances
	Cancelled  int           // Utterances abandoned through the context
	Failures   int           // Utterances that failed in the backend
	TotalTime  time.Duration // Time spent in completed utterances
}

// NewDriver creates a driver for backend.
func NewDriver(backend Backend) *Driver {
	return &Driver{backend: backend}
}

// Engine returns the backend name.
func (d *Driver) Engine() string {
	return d.backend.Name()
}

// Speak voices text and blocks until the backend signals completion.
//
// It returns ctx.Err() if the utterance was abandoned through ctx, and a
// *SpeechError if the backend failed.
func (d *Driver) Speak(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		d.stats.Cancelled++
		return err
	}

	start := time.Now()
	err := d.backend.Utter(ctx, text)
	elapsed := time.Since(start)

	// A cancelled context wins over whatever the backend reported while
	// being torn down.
	if ctxErr := ctx.Err(); ctxErr != nil {
		d.stats.Cancelled++
		log.Debug("Utterance abandoned", "engine", d.backend.Name(), "text", text, "after", elapsed)
		return ctxErr
	}

	if err != nil {
		d.stats.Failures++
		log.Error("Utterance failed", "engine", d.backend.Name(), "text", text, "error", err)
		return &SpeechError{Engine: d.backend.Name(), Text: text, Err: err}
	}

	d.stats.Utterances++
	d.stats.TotalTime += elapsed
	log.Debug("Utterance completed", "engine", d.backend.Name(), "text", text, "duration", elapsed)
	return nil
}

// Stats returns a snapshot of the driver's counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Close releases backend resources when the backend holds any.
func (d *Driver) Close() error {
	if c, ok := d.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// IsCancelled reports whether err came from an abandoned utterance rather
// than a backend failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
