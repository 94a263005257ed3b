package transcript

import (
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// Store owns the transcript. Readers get copies; the only mutation is
// ReplaceWord, which swaps in a new transcript value.
type Store struct {
	mu    sync.RWMutex
	words Transcript
}

// NewStore creates a store holding a copy of words.
func NewStore(words Transcript) *Store {
	return &Store{words: words.Clone()}
}

// All returns the current transcript. The result is a copy.
func (s *Store) All() Transcript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words.Clone()
}

// Len returns the number of words.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// At returns the word at index i as it is right now.
func (s *Store) At(i int) (Word, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.words) {
		return Word{}, false
	}
	return s.words[i], true
}

// ReplaceWord sets the text of word index to newText, keeping its timing
// and position. It returns the resulting transcript.
func (s *Store) ReplaceWord(index int, newText string) (Transcript, error) {
	text, err := CheckToken(index, newText)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.words) {
		return nil, &ValidationError{Err: ErrIndexOutOfRange, Index: index, Text: newText}
	}

	next := s.words.Clone()
	old := next[index].Text
	next[index].Text = text
	s.words = next

	log.Debug("Word replaced", "index", index, "old", old, "new", text)
	return next.Clone(), nil
}

// CheckToken validates that text is a single non-empty token and returns it
// in NFC form. Leading and trailing whitespace is not allowed to hide a
// second token, but surrounding blanks alone are trimmed.
func CheckToken(index int, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ValidationError{Err: ErrEmptyText, Index: index, Text: text}
	}
	if strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return "", &ValidationError{Err: ErrMultipleTokens, Index: index, Text: text}
	}
	return norm.NFC.String(trimmed), nil
}
