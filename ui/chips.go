package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/readalong/transcript"
)

// chipLayout positions words into lines no wider than width cells.
type chipLayout struct {
	lines [][]int // word indexes per line
}

func layoutChips(words transcript.Transcript, width int) chipLayout {
	var (
		layout chipLayout
		line   []int
		used   int
	)

	for i, w := range words {
		// Padding on both sides plus one separating space.
		cells := runewidth.StringWidth(w.Text) + 2
		gap := 0
		if len(line) > 0 {
			gap = 1
		}
		if width > 0 && len(line) > 0 && used+gap+cells > width {
			layout.lines = append(layout.lines, line)
			line, used, gap = nil, 0, 0
		}
		line = append(line, i)
		used += gap + cells
	}
	if len(line) > 0 {
		layout.lines = append(layout.lines, line)
	}
	return layout
}

// render draws the chips with the current and selected words marked.
func (l chipLayout) render(words transcript.Transcript, current, selected int, highlight string) string {
	var b strings.Builder
	for n, line := range l.lines {
		if n > 0 {
			b.WriteString("\n")
		}
		for j, i := range line {
			if j > 0 {
				b.WriteString(" ")
			}
			b.WriteString(chipFor(i, current, selected, highlight).Render(words[i].Text))
		}
	}
	return b.String()
}

func chipFor(i, current, selected int, highlight string) lipgloss.Style {
	switch {
	case i == current && i == selected:
		return currentChipStyle(highlight).Underline(true)
	case i == current:
		return currentChipStyle(highlight)
	case i == selected:
		return selectedChipStyle
	default:
		return chipStyle
	}
}
