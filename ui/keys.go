package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start key.Binding
	Stop  key.Binding
	Prev  key.Binding
	Next  key.Binding
	Edit  key.Binding
	Copy  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// Bindings while the word editor is open.
type editorKeyMap struct {
	Commit key.Binding
	Cancel key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start reading")),
		Stop:  key.NewBinding(key.WithKeys("s", "esc"), key.WithHelp("s/esc", "stop")),
		Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous word")),
		Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next word")),
		Edit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit word")),
		Copy:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func newEditorKeyMap() editorKeyMap {
	return editorKeyMap{
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Edit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop},
		{k.Prev, k.Next, k.Edit},
		{k.Copy, k.Help, k.Quit},
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Cancel}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
