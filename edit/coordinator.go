// Package edit manages the single inline edit a user can have open on a
// transcript word.
package edit

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readalong/transcript"
)

// ErrNoSession is returned by Commit when no edit is open.
var ErrNoSession = errors.New("no edit session is open")

// WordReplacer applies a validated single-word edit.
type WordReplacer interface {
	ReplaceWord(index int, newText string) (transcript.Transcript, error)
}

// Session is the view's picture of the edit in progress.
type Session struct {
	TargetIndex int // transcript.NoIndex when closed
	DraftText   string
	IsOpen      bool
}

func closedSession() Session {
	return Session{TargetIndex: transcript.NoIndex}
}

// Coordinator owns at most one edit session.
type Coordinator struct {
	store WordReplacer

	mu      sync.Mutex
	session Session
}

// NewCoordinator creates a coordinator that commits to store.
func NewCoordinator(store WordReplacer) *Coordinator {
	return &Coordinator{store: store, session: closedSession()}
}

// Open starts editing word index with currentText as the draft. An open
// session on another word is discarded.
func (c *Coordinator) Open(index int, currentText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.IsOpen && c.session.TargetIndex != index {
		log.Debug("Discarding edit", "index", c.session.TargetIndex, "draft", c.session.DraftText)
	}
	c.session = Session{TargetIndex: index, DraftText: currentText, IsOpen: true}
}

// Toggle closes the session if it is open on index, otherwise opens it
// there. It reports whether a session is open afterwards.
func (c *Coordinator) Toggle(index int, currentText string) bool {
	c.mu.Lock()
	if c.session.IsOpen && c.session.TargetIndex == index {
		c.session = closedSession()
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	c.Open(index, currentText)
	return true
}

// UpdateDraft replaces the draft text. It does not validate and does
// nothing when no session is open.
func (c *Coordinator) UpdateDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.IsOpen {
		c.session.DraftText = text
	}
}

// Commit writes the draft to the store and closes the session. On a
// *transcript.ValidationError the session stays open for correction.
func (c *Coordinator) Commit() (transcript.Transcript, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.IsOpen {
		return nil, ErrNoSession
	}

	words, err := c.store.ReplaceWord(c.session.TargetIndex, c.session.DraftText)
	if err != nil {
		log.Debug("Edit rejected", "index", c.session.TargetIndex, "draft", c.session.DraftText, "error", err)
		return nil, err
	}

	c.session = closedSession()
	return words, nil
}

// Cancel closes the session and discards the draft.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = closedSession()
}

// Session returns a snapshot of the current session.
func (c *Coordinator) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
