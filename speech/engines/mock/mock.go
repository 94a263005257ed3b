// Package mock provides a simulated speech engine. It makes no sound: each
// utterance just takes a configurable amount of time.
package mock

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dgnsrekt/readalong/config"
)

// ErrSimulated is returned for utterances failed by the configured failure rate.
var ErrSimulated = errors.New("simulated speech failure")

// Engine implements speech.Backend without producing audio.
type Engine struct {
	mu sync.Mutex

	latency     time.Duration
	jitter      time.Duration
	failureRate float64

	// Control for testing
	shouldFail   bool
	failureError error

	calls []string
	rng   *rand.Rand
}

// New creates a mock engine from cfg.
func New(cfg config.MockConfig) *Engine {
	return &Engine{
		latency:     cfg.Latency,
		jitter:      cfg.Jitter,
		failureRate: cfg.FailureRate,
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return config.EngineMock
}

// Utter waits for the simulated utterance length, or until ctx is done.
func (e *Engine) Utter(ctx context.Context, text string) error {
	e.mu.Lock()
	e.calls = append(e.calls, text)
	if e.shouldFail {
		err := e.failureError
		e.mu.Unlock()
		return err
	}
	if e.failureRate > 0 && e.rng.Float64() < e.failureRate {
		e.mu.Unlock()
		return ErrSimulated
	}
	d := e.latency
	if e.jitter > 0 {
		d += time.Duration(e.rng.Int64N(int64(e.jitter) + 1))
	}
	e.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Test control methods

// SetDelay fixes the utterance length and removes jitter.
func (e *Engine) SetDelay(delay time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latency = delay
	e.jitter = 0
}

// SetFailure makes every following utterance fail with err.
func (e *Engine) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shouldFail = true
	e.failureError = err
}

// ClearFailure resets the engine to normal operation.
func (e *Engine) ClearFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shouldFail = false
	e.failureError = nil
}

// Calls returns the texts passed to Utter, in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}
