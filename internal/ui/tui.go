// ABOUTME: TUI program entry point
// ABOUTME: Creates and configures the bubbletea program for the channel board
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run creates the TUI program over the given board.
func Run(board Board) (*tea.Program, error) {
	m := NewModel(board)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p, nil
}
