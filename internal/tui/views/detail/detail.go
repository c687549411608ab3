// Package detail renders the achievement info flyout overlay.
package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	ach "github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/games"
	"github.com/programmatix/game-tracker/internal/tui/theme"
)

const (
	panelWidth    = 64
	barWidth      = 20
	labelWidth    = 14
	recentEntries = 5
)

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(labelWidth)

	styleValue = lipgloss.NewStyle().
			Foreground(theme.ColorBright)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleFooter = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)

	styleSectionHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.ColorDimmed)

	styleError = lipgloss.NewStyle().
			Foreground(theme.ColorDanger)
)

// Model holds the state for the detail overlay.
type Model struct {
	Achievement *ach.Achievement
	Pinned      bool
	// Entries are the game's plays, newest last, once fetched.
	Entries  []games.Entry
	EntryErr string
	PinError string
	Now      func() time.Time
}

// New creates a detail model for a.
func New(a ach.Achievement, pinned bool) Model {
	return Model{Achievement: &a, Pinned: pinned, Now: time.Now}
}

// View renders the detail panel. Returns an empty string if no achievement is set.
func (m Model) View() string {
	if m.Achievement == nil {
		return ""
	}
	return stylePanel.Width(panelWidth).Render(m.renderInner(*m.Achievement))
}

func (m Model) renderInner(a ach.Achievement) string {
	var b strings.Builder
	now := m.Now()

	b.WriteString(styleTitle.Render(a.Title) + "\n")
	b.WriteString(strings.Repeat("─", panelWidth-4) + "\n")

	writeRow(&b, "Game", theme.GameBadge(a.GameID, a.GameName)+" "+a.GameName)
	writeRow(&b, "Track", a.TypeLabel)
	writeRow(&b, "Level", fmt.Sprintf("%d", a.Level))
	writeRow(&b, "ID", a.ID)

	status := string(a.Status)
	if m.Pinned {
		status += lipgloss.NewStyle().Foreground(theme.ColorPinned).Render("  (pinned)")
	}
	writeRow(&b, "Status", status)

	b.WriteString("\n")

	if a.Status == ach.StatusCompleted {
		if c := a.Completion; c != nil {
			writeRow(&b, "Completed", fmt.Sprintf("%s (%s)", theme.RelativeDate(c.Date, now), dateOrUnknown(c.Date)))
			writeRow(&b, "Play", fmt.Sprintf("#%d", c.PlayID))
			if c.Detail != "" {
				writeRow(&b, "Setup", truncate(c.Detail, 44))
			}
		} else {
			writeRow(&b, "Completed", "undated")
		}
	} else {
		writeRow(&b, "Progress", theme.ProgressBar(a.ProgressValue, a.ProgressTarget, barWidth)+
			fmt.Sprintf(" %d/%d %s", a.ProgressValue, a.ProgressTarget, a.ProgressLabel))
		writeRow(&b, "Remaining", fmt.Sprintf("%d (%d so far)", a.RemainingPlays, a.PlaysSoFar))
	}

	if len(m.Entries) > 0 {
		b.WriteString("\n")
		b.WriteString(styleSectionHeader.Render(fmt.Sprintf("Recent plays (%d total)", len(m.Entries))) + "\n")
		start := max(len(m.Entries)-recentEntries, 0)
		for i := len(m.Entries) - 1; i >= start; i-- {
			b.WriteString(renderEntry(m.Entries[i], now) + "\n")
		}
	}
	if m.EntryErr != "" {
		b.WriteString("\n" + styleError.Render("Plays: "+m.EntryErr) + "\n")
	}

	if m.PinError != "" {
		b.WriteString("\n")
		b.WriteString(styleError.Render("Pin error: "+m.PinError) + "\n")
	}

	b.WriteString("\n")
	footer := "[p] pin  [esc] close"
	if m.Pinned {
		footer = "[p] unpin  [esc] close"
	}
	b.WriteString(styleFooter.Render(footer))

	return b.String()
}

func renderEntry(e games.Entry, now time.Time) string {
	result := theme.StyleDimmed.Render("loss")
	if e.Win {
		result = lipgloss.NewStyle().Foreground(theme.ColorComplete).Render("win ")
	}
	when := theme.StyleDimmed.Render(fmt.Sprintf("%-12s", theme.RelativeDate(e.Date, now)))
	qty := ""
	if e.Quantity > 1 {
		qty = fmt.Sprintf(" x%d", e.Quantity)
	}
	where := ""
	if e.Location != "" {
		where = theme.StyleDimmed.Render(" @ " + truncate(e.Location, 12))
	}
	return "  " + when + " " + result + " " + truncate(e.Summary, 30) + qty + where
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label) + styleValue.Render(value) + "\n")
}

func dateOrUnknown(date string) string {
	if date == "" {
		return "no date"
	}
	return date
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
