package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Selection
	ToggleSelect key.Binding
	SelectAll    key.Binding
	DeselectAll  key.Binding

	// Mutations
	Delete    key.Binding
	DeleteAll key.Binding
	Upload    key.Binding

	// Field editing
	EditDate     key.Binding
	EditVendor   key.Binding
	EditCategory key.Binding
	EditJob      key.Binding
	EditAmount   key.Binding
	EditTax      key.Binding

	// Date range
	PickStart key.Binding
	PickEnd   key.Binding

	// Application
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn", "page down"),
		),

		ToggleSelect: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x/Space", "toggle selection"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("Ctrl+A", "select all"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+D", "deselect all"),
		),

		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),
		DeleteAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete all"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload files"),
		),

		EditDate: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit date"),
		),
		EditVendor: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "edit vendor"),
		),
		EditCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "edit category"),
		),
		EditJob: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "edit job"),
		),
		EditAmount: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "edit amount"),
		),
		EditTax: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit tax"),
		),

		PickStart: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "range start"),
		),
		PickEnd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "range end"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleSelect, k.Delete, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.ToggleSelect, k.SelectAll, k.DeselectAll},
		{k.Delete, k.DeleteAll, k.Upload, k.Refresh},
		{k.EditDate, k.EditVendor, k.EditCategory, k.EditJob},
		{k.EditAmount, k.EditTax, k.PickStart, k.PickEnd},
		{k.Help, k.Quit},
	}
}
