package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/programmatix/game-tracker/internal/tui/theme"
	"github.com/programmatix/game-tracker/internal/ws"
)

// Model holds the status bar state.
type Model struct {
	Connected  bool
	Username   string
	Available  int
	Completed  int
	ComputedAt time.Time
	Health     ws.HealthPayload
	Width      int
	Now        func() time.Time
}

// New creates a status bar model.
func New() Model {
	return Model{Now: time.Now}
}

// SetCounts updates the ladder counts.
func (m *Model) SetCounts(available, completed int) {
	m.Available = available
	m.Completed = completed
}

// View renders the status bar.
func (m Model) View() string {
	width := max(m.Width, 40)

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Connected")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Connecting...")
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr
	if m.Username != "" {
		content += sep + m.Username
	}
	content += sep + fmt.Sprintf("%d next  %d completed", m.Available, m.Completed)
	if !m.ComputedAt.IsZero() {
		content += sep + theme.StyleDimmed.Render("updated "+humanize.RelTime(m.ComputedAt, m.Now(), "ago", "from now"))
	}
	if m.Health.Status != "" && m.Health.Status != ws.StatusHealthy {
		content += sep + lipgloss.NewStyle().Foreground(healthColor(m.Health.Status)).Render(
			fmt.Sprintf("log %s (%d failures)", m.Health.Status, m.Health.Failures))
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}

func healthColor(s ws.HealthStatus) lipgloss.Color {
	switch s {
	case ws.StatusHealthy:
		return theme.ColorHealthy
	case ws.StatusDegraded:
		return theme.ColorWarning
	case ws.StatusFailed:
		return theme.ColorDanger
	default:
		return theme.ColorDimmed
	}
}
