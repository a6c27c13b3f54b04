// ABOUTME: Bubbletea model for the channel board status display
// ABOUTME: Polls board snapshots and routes volume keys to the selected channel
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Gavel-Project/gavel-go/internal/channels"
	"github.com/Gavel-Project/gavel-go/internal/playback"
	"github.com/Gavel-Project/gavel-go/internal/version"
)

// volumeStep is how much one keypress changes a channel volume.
const volumeStep = 0.05

// refreshEvery is the snapshot poll interval.
const refreshEvery = 200 * time.Millisecond

// Board is the slice of the channel board the display needs.
type Board interface {
	Snapshot() []channels.ChannelStatus
	Channel(name string) playback.Element
}

// Model is the TUI state.
type Model struct {
	board    Board
	rows     []channels.ChannelStatus
	selected int
	width    int
	height   int
}

// NewModel builds the model with an initial snapshot.
func NewModel(board Board) Model {
	m := Model{board: board}
	if board != nil {
		m.rows = board.Snapshot()
	}
	return m
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if m.board != nil {
			m.rows = m.board.Snapshot()
		}
		return m, tick()
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab", "down":
		if len(m.rows) > 0 {
			m.selected = (m.selected + 1) % len(m.rows)
		}
	case "shift+tab", "up":
		if len(m.rows) > 0 {
			m.selected = (m.selected + len(m.rows) - 1) % len(m.rows)
		}
	case "+", "=", "right":
		m.adjustVolume(volumeStep)
	case "-", "left":
		m.adjustVolume(-volumeStep)
	case "p":
		m.togglePlayback()
	case "s":
		m.stopSelected()
	}

	return m, nil
}

func (m *Model) selectedElement() playback.Element {
	if m.board == nil || m.selected >= len(m.rows) {
		return nil
	}
	return m.board.Channel(m.rows[m.selected].Name)
}

func (m *Model) adjustVolume(delta float64) {
	el := m.selectedElement()
	if el == nil {
		return
	}
	el.SetVolume(el.Volume() + delta)
	if m.board != nil {
		m.rows = m.board.Snapshot()
	}
}

func (m *Model) togglePlayback() {
	el := m.selectedElement()
	if el == nil {
		return
	}
	if el.State() == playback.StatePlaying {
		el.Pause()
		return
	}
	// Play can block on an in-flight load; keep the UI loop free.
	go el.Play()
}

func (m *Model) stopSelected() {
	if el := m.selectedElement(); el != nil {
		el.Pause()
	}
}

// View renders the board table
func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "┌─ %s %s ─ channel board ──────────────────────┐\n", version.Product, version.Version)
	b.WriteString("│ CHANNEL    STATE     TIME          VOL    SOURCE     │\n")
	b.WriteString("├──────────────────────────────────────────────────────┤\n")

	for i, row := range m.rows {
		cursor := " "
		if i == m.selected {
			cursor = ">"
		}
		fmt.Fprintf(&b, "│%s %-10s %-9s %5.1f/%5.1fs  [%s]  %-10s │\n",
			cursor,
			truncate(row.Name, 10),
			stateLabel(row.State),
			row.Time,
			row.Length,
			renderBar(row.Volume, 4),
			truncate(row.Source, 10),
		)
	}
	if len(m.rows) == 0 {
		b.WriteString("│ (no channels)                                        │\n")
	}

	b.WriteString("├──────────────────────────────────────────────────────┤\n")
	b.WriteString("│ tab:Select  +/-:Volume  p:Play/Pause  s:Stop  q:Quit │\n")
	b.WriteString("└──────────────────────────────────────────────────────┘\n")
	return b.String()
}

func stateLabel(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "playing"
	case playback.StatePaused:
		return "paused"
	case playback.StateLoading:
		return "loading"
	case playback.StateErrored:
		return "error"
	default:
		return "empty"
	}
}

func renderBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	if length <= 3 {
		return s[:length]
	}
	return s[:length-3] + "..."
}
