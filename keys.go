package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause key.Binding
	Step      key.Binding
	Resolve   key.Binding
	Trace     key.Binding
	Picker    key.Binding
	Drawer    key.Binding
	UpDown    key.Binding
	Restart   key.Binding
	Close     key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Step:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next event")),
		Resolve:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolve consent")),
		Trace:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle trace")),
		Picker:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter domains")),
		Drawer:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "risk drawer")),
		UpDown:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
		Restart:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Step, k.Resolve, k.Trace, k.Picker, k.Drawer, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Step, k.Restart},
		{k.Resolve, k.Trace, k.Picker, k.Drawer},
		{k.UpDown, k.Close, k.Quit},
	}
}

type pickerKeyMap struct {
	keyMap
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.UpDown, k.Close, k.Quit}
}
