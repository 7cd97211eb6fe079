package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	yes       key.Binding
	no        key.Binding
	search    key.Binding
	add       key.Binding
	edit      key.Binding
	remove    key.Binding
	progress  key.Binding
	reviews   key.Binding
	goals     key.Binding
	dashboard key.Binding
	refresh   key.Binding
	prev      key.Binding
	next      key.Binding
	monthly   key.Binding
	submit    key.Binding
	register  key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:        key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		remove:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		progress:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "progress")),
		reviews:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reviews")),
		goals:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goals")),
		dashboard: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		refresh:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		monthly:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "year/month")),
		submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		register:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "create account")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.add, k.edit, k.remove},
		{k.progress, k.reviews, k.goals, k.dashboard},
		{k.refresh, k.quit},
	}
}
