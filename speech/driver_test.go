package speech

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeBackend blocks each utterance until released or cancelled.
type fakeBackend struct {
	err     error
	release chan struct{}
	started chan string
	spoken  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		release: make(chan struct{}),
		started: make(chan string, 10),
	}
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Utter(ctx context.Context, text string) error {
	b.started <- text
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.release:
	}
	if b.err != nil {
		return b.err
	}
	b.spoken = append(b.spoken, text)
	return nil
}

type closingBackend struct {
	fakeBackend
	closed bool
}

func (b *closingBackend) Close() error {
	b.closed = true
	return nil
}

func TestDriverSpeakWaitsForBackend(t *testing.T) {
	backend := newFakeBackend()
	driver := NewDriver(backend)

	done := make(chan error, 1)
	go func() { done <- driver.Speak(context.Background(), "hello") }()

	<-backend.started
	select {
	case err := <-done:
		t.Fatalf("Speak returned before the backend finished: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	close(backend.release)
	if err := <-done; err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	stats := driver.Stats()
	if stats.Utterances != 1 {
		t.Errorf("Utterances = %d, want 1", stats.Utterances)
	}
	if len(backend.spoken) != 1 || backend.spoken[0] != "hello" {
		t.Errorf("spoken = %v", backend.spoken)
	}
}

func TestDriverSpeakCancelled(t *testing.T) {
	backend := newFakeBackend()
	driver := NewDriver(backend)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- driver.Speak(ctx, "hello") }()

	<-backend.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if IsSpeechError(err) {
			t.Error("cancellation must not be reported as a speech error")
		}
		if !IsCancelled(err) {
			t.Error("IsCancelled should be true")
		}
	case <-time.After(time.Second):
		t.Fatal("Speak did not return after cancellation")
	}

	if driver.Stats().Cancelled != 1 {
		t.Errorf("Cancelled = %d, want 1", driver.Stats().Cancelled)
	}
}

func TestDriverSpeakAlreadyCancelled(t *testing.T) {
	backend := newFakeBackend()
	driver := NewDriver(backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := driver.Speak(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	select {
	case text := <-backend.started:
		t.Errorf("backend was invoked with %q", text)
	default:
	}
}

func TestDriverSpeakFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.err = errors.New("device busy")
	close(backend.release)
	driver := NewDriver(backend)

	err := driver.Speak(context.Background(), "hello")

	var se *SpeechError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SpeechError", err)
	}
	if se.Engine != "fake" || se.Text != "hello" {
		t.Errorf("SpeechError = %+v", se)
	}
	if !errors.Is(err, backend.err) {
		t.Error("SpeechError should unwrap to the backend error")
	}
	if driver.Stats().Failures != 1 {
		t.Errorf("Failures = %d, want 1", driver.Stats().Failures)
	}
}

func TestDriverClose(t *testing.T) {
	backend := &closingBackend{fakeBackend: *newFakeBackend()}
	driver := NewDriver(backend)

	if err := driver.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !backend.closed {
		t.Error("backend Close was not called")
	}

	if err := NewDriver(newFakeBackend()).Close(); err != nil {
		t.Errorf("Close on a backend without resources failed: %v", err)
	}
}

func TestSpeechErrorMessage(t *testing.T) {
	err := &SpeechError{Engine: "mock", Text: "hi", Err: errors.New("boom")}
	want := `mock: speaking "hi" failed: boom`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
