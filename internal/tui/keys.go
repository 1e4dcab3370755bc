package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	AddRoot     key.Binding
	ChildInput  key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Collapse    key.Binding
	Preview     key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	ToggleFocus key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "ctrl+p"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "ctrl+n"),
			key.WithHelp("↓/j", "down"),
		),
		AddRoot: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		ChildInput: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "add child"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Collapse: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "fold"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right"),
			key.WithHelp("tab", "switch"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddRoot, k.ChildInput, k.Edit, k.Delete, k.Preview, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Collapse},
		{k.AddRoot, k.ChildInput, k.Submit},
		{k.Edit, k.Delete, k.Preview},
		{k.Cancel, k.Help, k.Quit},
	}
}

// childInputKeys is the reduced help shown while an add-child row has focus.
type childInputKeys struct{ k keyMap }

func (c childInputKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.k.Submit, c.k.Cancel, c.k.Up, c.k.Down}
}

func (c childInputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}
