package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Tab       key.Binding
	Pick      key.Binding
	AddCustom key.Binding
	EditCost  key.Binding
	Status    key.Binding
	Delete    key.Binding
	Export    key.Binding
	Search    key.Binding
	Reload    key.Binding
	Sync      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Pick: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add from template"),
		),
		AddCustom: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add custom goal"),
		),
		EditCost: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "edit cost"),
		),
		Status: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "cycle status"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export roadmap"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "git sync"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  tab pane  a template  A custom  c cost  space status  d delete  x export  / filter  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"tab", "Switch pane (goals / details)"},
		{"a", "Add a goal from the template catalog"},
		{"A", "Add a custom goal"},
		{"c", "Edit estimated cost"},
		{"space", "Cycle planned / in-progress / complete"},
		{"d", "Remove goal (with confirmation)"},
		{"x", "Export roadmap as markdown"},
		{"/", "Filter goals by title"},
		{"R", "Reload basket from disk"},
		{"s", "Git sync"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
