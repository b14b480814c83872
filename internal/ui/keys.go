package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Step       key.Binding
	View       key.Binding
	GainUp     key.Binding
	GainDown   key.Binding
	OffsetUp   key.Binding
	OffsetDown key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/stop")),
		Step:       key.NewBinding(key.WithKeys("."), key.WithHelp(".", "step")),
		View:       key.NewBinding(key.WithKeys("v", "tab"), key.WithHelp("v", "view")),
		GainUp:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "gain")),
		GainDown:   key.NewBinding(key.WithKeys("down", "j")),
		OffsetUp:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("←/→", "offset")),
		OffsetDown: key.NewBinding(key.WithKeys("left", "h")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear marker")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.View, k.GainUp, k.OffsetUp, k.Clear, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Step, k.View},
		{k.GainUp, k.OffsetUp, k.Clear},
		{k.Help, k.Quit},
	}
}
