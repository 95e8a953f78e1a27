package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the tree view
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Expand    key.Binding
	Collapse  key.Binding
	Toggle    key.Binding
	Run       key.Binding
	New       key.Binding
	NewScript key.Binding
	Edit      key.Binding
	Open      key.Binding
	Rename    key.Binding
	Delete    key.Binding
	Refresh   key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	AddTab    key.Binding
	CloseTab  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Edit, k.NewScript, k.New, k.Rename, k.Delete, k.NextTab, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse, k.Toggle},
		{k.Run, k.Edit, k.Open, k.Refresh},
		{k.NewScript, k.New, k.Rename, k.Delete},
		{k.NextTab, k.PrevTab, k.MoveLeft, k.MoveRight, k.AddTab, k.CloseTab},
		{k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new folder"),
		),
		NewScript: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "new script"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "show in file browser"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "f5"),
			key.WithHelp("R", "refresh"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		AddTab: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "add tab"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close tab"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("shift+left"),
			key.WithHelp("shift+←", "move tab left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys("shift+right"),
			key.WithHelp("shift+→", "move tab right"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// dialogKeyMap is shown while a prompt or confirmation is open
type dialogKeyMap struct {
	Confirm key.Binding
	Archive key.Binding
	Delete  key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dialogKeyMap) ShortHelp() []key.Binding {
	var bindings []key.Binding
	for _, b := range []key.Binding{k.Confirm, k.Archive, k.Delete, k.Cancel} {
		if b.Enabled() {
			bindings = append(bindings, b)
		}
	}
	return bindings
}

// FullHelp returns keybindings for the expanded help view
func (k dialogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func promptKeys() dialogKeyMap {
	return dialogKeyMap{
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
		Archive: key.NewBinding(key.WithDisabled()),
		Delete:  key.NewBinding(key.WithDisabled()),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func removeKeys(allowArchive bool) dialogKeyMap {
	k := dialogKeyMap{
		Confirm: key.NewBinding(key.WithDisabled()),
		Archive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Delete:  key.NewBinding(key.WithKeys("d", "y"), key.WithHelp("d", "delete")),
		Cancel:  key.NewBinding(key.WithKeys("c", "n", "esc"), key.WithHelp("c/esc", "cancel")),
	}
	k.Archive.SetEnabled(allowArchive)
	return k
}

func closeKeys() dialogKeyMap {
	return dialogKeyMap{
		Confirm: key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "close tab")),
		Archive: key.NewBinding(key.WithDisabled()),
		Delete:  key.NewBinding(key.WithDisabled()),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "keep")),
	}
}
