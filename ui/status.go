package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	readingNote = "Reading..."
	idleNote    = "Start Reading"
)

func logoView() string {
	return logoStyle(" readalong ")
}

// note is the playback status shown when no message is pending.
func (m model) note() string {
	var parts []string
	if m.playback.IsPlaying {
		parts = append(parts, m.spinner.View()+readingNote)
	} else {
		parts = append(parts, idleNote)
	}
	if m.cfg.Engine != "" {
		parts = append(parts, m.cfg.Engine)
	}
	if m.cfg.Source != "" {
		parts = append(parts, m.cfg.Source)
	}
	return strings.Join(parts, " · ")
}

func (m model) position() string {
	n := m.store.Len()
	if !m.playback.HasCurrent() || n == 0 {
		return fmt.Sprintf(" –/%d ", n)
	}
	return fmt.Sprintf(" %d/%d ", min(m.playback.CurrentIndex+1, n), n)
}

func (m model) statusBarView(b *strings.Builder) {
	logo := logoView()
	pos := statusBarPosStyle(m.position())

	note := m.note()
	style := statusBarNoteStyle
	if m.statusMessage != "" {
		note = m.statusMessage
		style = statusBarMessageStyle
		if m.statusIsError {
			style = statusBarErrorStyle
		}
	}

	note = " " + note + " "
	if m.width > 0 {
		avail := max(0, m.width-ansi.PrintableRuneWidth(logo)-ansi.PrintableRuneWidth(pos))
		note = truncate.StringWithTail(note, uint(avail), ellipsis) //nolint:gosec
	}
	note = style(note)

	padding := max(0, m.width-
		ansi.PrintableRuneWidth(logo)-
		ansi.PrintableRuneWidth(note)-
		ansi.PrintableRuneWidth(pos),
	)
	emptySpace := style(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s", logo, note, emptySpace, pos)
}
