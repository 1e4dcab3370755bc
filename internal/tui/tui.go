package tui

import (
	"tasktree/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows sess in the terminal until the user quits.
func Run(sess *session.Session, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()
	m := newAppModel(sess, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
