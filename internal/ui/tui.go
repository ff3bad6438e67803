// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the terminal host
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the terminal view until the user quits
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
