package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next   key.Binding
	prev   key.Binding
	up     key.Binding
	down   key.Binding
	left   key.Binding
	right  key.Binding
	choose key.Binding
	clear  key.Binding
	submit key.Binding
	open   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		left:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous genre")),
		right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next genre")),
		choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear song")),
		submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "cari rekomendasi")),
		open:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open in spotify")),
		quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.submit, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.up, k.down},
		{k.choose, k.clear, k.left, k.right},
		{k.submit, k.open, k.quit},
	}
}
