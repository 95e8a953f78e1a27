package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive wall and blocks until the user quits.
func Run(opts Options) error {
	model, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
