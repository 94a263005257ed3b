package transcript

import (
	"strings"
	"time"
)

// NoIndex marks the absence of a word index ("none").
const NoIndex = -1

// Word is one timed token of a transcript.
type Word struct {
	Text      string `json:"word" yaml:"word"`             // Single token, never empty
	StartTime int64  `json:"start_time" yaml:"start_time"` // Offset on the source timeline, in ms
	Duration  int64  `json:"duration" yaml:"duration"`     // Nominal length, in ms
}

// Transcript is an ordered sequence of words. Order is playback order.
type Transcript []Word

// Clone returns an independent copy of the transcript.
func (t Transcript) Clone() Transcript {
	if t == nil {
		return nil
	}
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Text joins the words with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, len(t))
	for i, w := range t {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// GapBetween returns the wait between the start of prev and the start of
// cur. Negative deltas are clamped to zero.
func GapBetween(prev, cur Word) time.Duration {
	delta := cur.StartTime - prev.StartTime
	if delta < 0 {
		return 0
	}
	return time.Duration(delta) * time.Millisecond
}

// Gap returns the wait before word i starts. Gap(0) is always zero.
func (t Transcript) Gap(i int) time.Duration {
	if i <= 0 || i >= len(t) {
		return 0
	}
	return GapBetween(t[i-1], t[i])
}

// Sample returns the demo transcript readalong plays when no input file is
// given.
func Sample() Transcript {
	return Transcript{
		{Text: "Hello", StartTime: 0, Duration: 500},
		{Text: "world", StartTime: 200, Duration: 700},
		{Text: "This", StartTime: 200, Duration: 300},
		{Text: "is", StartTime: 200, Duration: 200},
		{Text: "a", StartTime: 200, Duration: 100},
		{Text: "test", StartTime: 200, Duration: 400},
		{Text: "transcript", StartTime: 200, Duration: 600},
		{Text: "for", StartTime: 200, Duration: 200},
		{Text: "playback", StartTime: 200, Duration: 500},
		{Text: "and", StartTime: 200, Duration: 250},
		{Text: "editing", StartTime: 200, Duration: 800},
		{Text: "features.", StartTime: 200, Duration: 650},
	}
}
