package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard shortcuts of the editor and reader. It
// implements help.KeyMap.
type KeyMap struct {
	// Core actions
	Quit  key.Binding
	Save  key.Binding
	Help  key.Binding
	Focus key.Binding
	Hints key.Binding

	// Exercise actions
	Insert key.Binding
	Edit   key.Binding
	Apply  key.Binding
	Delete key.Binding
	Cancel key.Binding

	// Toolbar
	Heading key.Binding
	Bullet  key.Binding
	Table   key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Reader
	Next   key.Binding
	Prev   key.Binding
	Search key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save file"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Hints: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle hints"),
		),

		Insert: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new exercise"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit exercise"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply form"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete exercise"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		Heading: key.NewBinding(
			key.WithKeys("alt+h"),
			key.WithHelp("alt+h", "heading"),
		),
		Bullet: key.NewBinding(
			key.WithKeys("alt+l"),
			key.WithHelp("alt+l", "list item"),
		),
		Table: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "insert table"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),

		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "next lesson"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/←", "previous lesson"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find lesson"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Insert, k.Save, k.Help, k.Quit}
}

// FullHelp returns the bindings of the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Focus, k.Hints, k.Quit},
		{k.Insert, k.Edit, k.Apply, k.Delete, k.Cancel},
		{k.Heading, k.Bullet, k.Table},
		{k.Up, k.Down, k.PageUp, k.PageDown},
	}
}

// readerKeys adapts the map for the reader's help view.
type readerKeys KeyMap

func (k readerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Search, k.Hints, k.Quit}
}

func (k readerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Search},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Hints, k.Help, k.Quit},
	}
}
