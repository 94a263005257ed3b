package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/readalong/config"
)

func TestUtterWaitsForLatency(t *testing.T) {
	engine := New(config.MockConfig{Latency: 20 * time.Millisecond})

	start := time.Now()
	if err := engine.Utter(context.Background(), "hello"); err != nil {
		t.Fatalf("Utter failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Utter returned after %v, want at least 20ms", elapsed)
	}
}

func TestUtterJitterBounds(t *testing.T) {
	engine := New(config.MockConfig{Latency: 5 * time.Millisecond, Jitter: 10 * time.Millisecond})

	for i := 0; i < 5; i++ {
		start := time.Now()
		if err := engine.Utter(context.Background(), "x"); err != nil {
			t.Fatalf("Utter failed: %v", err)
		}
		if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
			t.Errorf("Utter returned after %v, below latency", elapsed)
		}
	}
}

func TestUtterCancellation(t *testing.T) {
	engine := New(config.MockConfig{Latency: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Utter(ctx, "slow") }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Utter = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Utter did not return after cancel")
	}
}

func TestFailureControls(t *testing.T) {
	engine := New(config.MockConfig{})
	boom := errors.New("boom")

	engine.SetFailure(boom)
	if err := engine.Utter(context.Background(), "a"); !errors.Is(err, boom) {
		t.Errorf("Utter = %v, want %v", err, boom)
	}

	engine.ClearFailure()
	if err := engine.Utter(context.Background(), "b"); err != nil {
		t.Errorf("Utter after ClearFailure = %v", err)
	}
}

func TestFailureRateOne(t *testing.T) {
	engine := New(config.MockConfig{FailureRate: 1})
	if err := engine.Utter(context.Background(), "a"); !errors.Is(err, ErrSimulated) {
		t.Errorf("Utter = %v, want ErrSimulated", err)
	}
}

func TestCallsRecorded(t *testing.T) {
	engine := New(config.MockConfig{})
	for _, w := range []string{"one", "two", "three"} {
		_ = engine.Utter(context.Background(), w)
	}

	calls := engine.Calls()
	if len(calls) != 3 || calls[0] != "one" || calls[2] != "three" {
		t.Errorf("Calls = %v", calls)
	}
	if engine.Name() != config.EngineMock {
		t.Errorf("Name = %q", engine.Name())
	}
}
