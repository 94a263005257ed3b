// Package playback walks a transcript word by word, speaking each one and
// reproducing the original gaps between word start times. A Scheduler
// publishes the word on air so a view can highlight it, and can be stopped
// at any point.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/dgnsrekt/readalong/transcript"
)

// Source is the transcript a run reads from. It is read again at every
// index, so edits made during a run reach words not yet spoken.
type Source interface {
	Len() int
	At(i int) (transcript.Word, bool)
}

// Speaker voices one word and returns when it has been heard.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWaiter replaces the wall-clock gap waiter.
func WithWaiter(w Waiter) Option {
	return func(s *Scheduler) {
		s.waiter = w
	}
}

// Scheduler runs one playback at a time.
type Scheduler struct {
	speaker Speaker
	waiter  Waiter

	mu            sync.Mutex
	status        Status
	state         State
	runID         string
	cancel        context.CancelFunc
	done          chan struct{}
	stopRequested bool
	observers     []Observer

	// Held while observers run so they see states in publish order.
	publishMu sync.Mutex
}

// New creates an idle scheduler that speaks through speaker.
func New(speaker Speaker, opts ...Option) *Scheduler {
	s := &Scheduler{
		speaker: speaker,
		waiter:  TimerWaiter{},
		state:   State{CurrentIndex: transcript.NoIndex},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to receive every published State. Observers run on
// the playback goroutine and must not call Stop directly.
func (s *Scheduler) OnChange(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// State returns the latest published state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status reports whether a run is active.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start plays src from the first word and blocks until the run ends.
//
// It returns an *AlreadyRunningError without touching the active run if one
// exists. A run ended by Stop returns nil; one ended by ctx returns
// ctx.Err(); a speech failure aborts the run and is returned as is.
func (s *Scheduler) Start(ctx context.Context, src Source) error {
	s.mu.Lock()
	if s.status == StatusRunning {
		id := s.runID
		s.mu.Unlock()
		return &AlreadyRunningError{RunID: id}
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	id, err := nanoid.New()
	if err != nil {
		id = "unknown"
	}

	s.status = StatusRunning
	s.runID = id
	s.cancel = cancel
	s.done = done
	s.stopRequested = false
	s.mu.Unlock()

	defer close(done)
	defer cancel()

	n := src.Len()
	log.Info("Playback started", "run", id, "words", n)
	start := time.Now()

	s.publish(func(st *State) {
		st.CurrentIndex = 0
		st.IsPlaying = true
	})

	runErr := s.loop(runCtx, id, src)

	var stopped bool
	s.publish(func(st *State) {
		st.IsPlaying = false
		s.status = StatusIdle
		s.cancel = nil
		stopped = s.stopRequested
	})

	switch {
	case runErr == nil:
		log.Info("Playback finished", "run", id, "elapsed", time.Since(start))
		return nil
	case runCtx.Err() != nil && stopped:
		log.Info("Playback stopped", "run", id, "at", s.State().CurrentIndex)
		return nil
	case runCtx.Err() != nil:
		log.Info("Playback cancelled", "run", id, "error", ctx.Err())
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return runErr
	default:
		log.Error("Playback aborted", "run", id, "error", runErr)
		return runErr
	}
}

func (s *Scheduler) loop(ctx context.Context, id string, src Source) error {
	for i := 0; i < src.Len(); i++ {
		if i > 0 {
			s.publish(func(st *State) { st.CurrentIndex = i })

			prev, okPrev := src.At(i - 1)
			cur, okCur := src.At(i)
			if !okPrev || !okCur {
				return nil
			}
			if err := s.waiter.Wait(ctx, transcript.GapBetween(prev, cur)); err != nil {
				return err
			}
		}

		word, ok := src.At(i)
		if !ok {
			return nil
		}

		log.Debug("Speaking word", "run", id, "index", i, "word", word.Text)
		if err := s.speaker.Speak(ctx, word.Text); err != nil {
			return err
		}
	}
	return nil
}

// Stop cancels the active run and waits for it to unwind. It is a no-op
// when idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.status != StatusRunning {
		s.mu.Unlock()
		return
	}
	s.stopRequested = true
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
}

// publish applies fn to the state under the lock, then hands the result to
// every observer.
func (s *Scheduler) publish(fn func(*State)) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	st := s.state
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o(st)
	}
}
