// Package ui provides the terminal view for readalong: word chips with the
// word on air highlighted, an inline editor for one word, and a status bar.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/readalong/edit"
	"github.com/dgnsrekt/readalong/playback"
	"github.com/dgnsrekt/readalong/speech"
	"github.com/dgnsrekt/readalong/transcript"
)

const (
	statusMessageTimeout = time.Second * 3
	stateBuffer          = 64
)

type (
	stateMsg                playback.State
	runFinishedMsg          struct{ err error }
	statusMessageTimeoutMsg struct{}
)

type model struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	store     *transcript.Store
	scheduler *playback.Scheduler
	editor    *edit.Coordinator
	states    chan playback.State

	playback playback.State
	selected int
	runErr   error

	width  int
	height int

	input   textinput.Model
	editErr string

	keys       keyMap
	editorKeys editorKeyMap
	help       help.Model
	spinner    spinner.Model

	statusMessage      string
	statusIsError      bool
	statusMessageTimer *time.Timer
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, store *transcript.Store, scheduler *playback.Scheduler, editor *edit.Coordinator) *tea.Program {
	log.Debug("Starting readalong", "engine", cfg.Engine, "words", store.Len())
	return tea.NewProgram(newModel(cfg, store, scheduler, editor), tea.WithAltScreen())
}

func newModel(cfg Config, store *transcript.Store, scheduler *playback.Scheduler, editor *edit.Coordinator) model {
	if cfg.HighlightColor == "" {
		cfg.HighlightColor = "#FFA500"
	}

	ctx, cancel := context.WithCancel(context.Background())
	states := make(chan playback.State, stateBuffer)

	// Observers run on the playback goroutine; hand states to the event loop.
	scheduler.OnChange(func(st playback.State) {
		select {
		case states <- st:
		case <-ctx.Done():
		}
	})

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return model{
		cfg:        cfg,
		ctx:        ctx,
		cancel:     cancel,
		store:      store,
		scheduler:  scheduler,
		editor:     editor,
		states:     states,
		playback:   scheduler.State(),
		input:      ti,
		keys:       newKeyMap(),
		editorKeys: newEditorKeyMap(),
		help:       help.New(),
		spinner:    sp,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(listenForState(m.states), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.playback = playback.State(msg)
		return m, listenForState(m.states)

	case runFinishedMsg:
		return m, m.handleRunFinished(msg.err)

	case statusMessageTimeoutMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editor.Session().IsOpen {
			return m.updateEditor(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m *model) handleRunFinished(err error) tea.Cmd {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, playback.ErrAlreadyRunning):
		return m.showStatusMessage("Already reading", false)
	default:
		m.runErr = err
		log.Error("Playback failed", "error", err)
		msg := err.Error()
		var se *speech.SpeechError
		if errors.As(err, &se) {
			msg = fmt.Sprintf("Could not speak %q: %v", se.Text, se.Err)
		}
		return m.showStatusMessage(msg, true)
	}
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		if m.playback.IsPlaying {
			return m, nil
		}
		m.runErr = nil
		return m, startPlayback(m.ctx, m.scheduler, m.store)

	case key.Matches(msg, m.keys.Stop):
		if !m.playback.IsPlaying {
			return m, nil
		}
		return m, stopPlayback(m.scheduler)

	case key.Matches(msg, m.keys.Prev):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Next):
		if m.selected < m.store.Len()-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Edit):
		word, ok := m.store.At(m.selected)
		if !ok {
			return m, nil
		}
		if !m.editor.Toggle(m.selected, word.Text) {
			m.input.Blur()
			return m, nil
		}
		m.editErr = ""
		m.input.SetValue(word.Text)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Copy):
		if err := clipboard.WriteAll(m.store.All().Text()); err != nil {
			log.Warn("Could not copy transcript", "error", err)
			return m, m.showStatusMessage("Clipboard unavailable", true)
		}
		return m, m.showStatusMessage("Copied transcript", false)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.editorKeys.Commit):
		if _, err := m.editor.Commit(); err != nil {
			var ve *transcript.ValidationError
			if errors.As(err, &ve) {
				m.editErr = ve.Message()
			} else {
				m.editErr = err.Error()
			}
			return m, nil
		}
		m.editErr = ""
		m.input.Blur()
		return m, m.showStatusMessage("Word updated", false)

	case key.Matches(msg, m.editorKeys.Cancel):
		m.editor.Cancel()
		m.editErr = ""
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.editor.UpdateDraft(m.input.Value())
	return m, cmd
}

func (m *model) showStatusMessage(msg string, isError bool) tea.Cmd {
	m.statusMessage = msg
	m.statusIsError = isError
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func (m model) View() string {
	var b strings.Builder

	words := m.store.All()
	width := m.cfg.WrapWidth
	if width == 0 && m.width > 0 {
		width = m.width - 4
	}

	current := transcript.NoIndex
	if m.playback.HasCurrent() {
		current = m.playback.CurrentIndex
	}

	b.WriteString("\n")
	if len(words) == 0 {
		b.WriteString(indent(subtleStyle("No words to read."), 2))
	} else {
		chips := layoutChips(words, width).render(words, current, m.selected, m.cfg.HighlightColor)
		b.WriteString(indent(chips, 2))
	}

	if s := m.editor.Session(); s.IsOpen {
		b.WriteString("\n")
		b.WriteString(indent(m.editorView(s), 2))
	}

	b.WriteString("\n")
	m.statusBarView(&b)

	b.WriteString("\n")
	if m.editor.Session().IsOpen {
		b.WriteString(indent(m.help.View(m.editorKeys), 2))
	} else {
		b.WriteString(indent(m.help.View(m.keys), 2))
	}

	return b.String()
}

func (m model) editorView(s edit.Session) string {
	title := subtleStyle(fmt.Sprintf("Edit word %d", s.TargetIndex+1))
	body := title + "\n" + m.input.View()
	if m.editErr != "" {
		body += "\n" + editorErrorStyle(m.editErr)
	}
	return editorStyle.Render(body)
}

// COMMANDS

func listenForState(ch <-chan playback.State) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ch)
	}
}

func startPlayback(ctx context.Context, s *playback.Scheduler, src playback.Source) tea.Cmd {
	return func() tea.Msg {
		return runFinishedMsg{err: s.Start(ctx, src)}
	}
}

// Stop waits for the run to unwind, so keep it off the event loop.
func stopPlayback(s *playback.Scheduler) tea.Cmd {
	return func() tea.Msg {
		s.Stop()
		return nil
	}
}

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for j, v := range l {
		if j > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s%s", i, v)
	}
	return b.String()
}
