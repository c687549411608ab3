// Package achievements renders the ladder list: next-up achievements
// (pinned first) and the completed ones.
package achievements

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ach "github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/tui/theme"
)

// Tab selects which half of the partition is shown.
type Tab int

const (
	TabNext Tab = iota
	TabCompleted
)

var tabNames = []string{"Next up", "Completed"}

const barWidth = 12

// Model holds the list state.
type Model struct {
	part     ach.Partition
	pinned   ach.PinSet
	tab      Tab
	selected int
	Now      func() time.Time
}

func New() Model {
	return Model{Now: time.Now}
}

// SetPartition replaces the shown ladder, keeping the selection in range.
func (m *Model) SetPartition(p ach.Partition) {
	m.part = p
	m.clampSelection()
}

// SetPinned records which ids are pinned so rows can be marked.
func (m *Model) SetPinned(ids []string) {
	m.pinned = ach.NewPinSet(ids)
}

func (m Model) Tab() Tab { return m.tab }

func (m Model) list() []ach.Achievement {
	if m.tab == TabCompleted {
		return m.part.Completed
	}
	return m.part.Available
}

// Selected returns the highlighted achievement.
func (m Model) Selected() (ach.Achievement, bool) {
	list := m.list()
	if m.selected < 0 || m.selected >= len(list) {
		return ach.Achievement{}, false
	}
	return list[m.selected], true
}

// Update handles navigation keys.
func (m Model) Update(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "tab", "left", "right", "h", "l":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selected = 0
	case "j", "down":
		m.selected++
	case "k", "up":
		m.selected--
	case "g", "home":
		m.selected = 0
	case "G", "end":
		m.selected = len(m.list()) - 1
	}
	m.clampSelection()
	return m
}

func (m *Model) clampSelection() {
	n := len(m.list())
	m.selected = min(max(m.selected, 0), max(n-1, 0))
}

// View renders the list in a w×h area.
func (m Model) View(w, h int) string {
	var b strings.Builder

	var tabs []string
	for i, name := range tabNames {
		count := len(m.part.Available)
		if Tab(i) == TabCompleted {
			count = len(m.part.Completed)
		}
		label := fmt.Sprintf("%s (%d)", name, count)
		if Tab(i) == m.tab {
			tabs = append(tabs, lipgloss.NewStyle().Bold(true).Underline(true).Foreground(theme.ColorBright).Render(label))
		} else {
			tabs = append(tabs, theme.StyleDimmed.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, "  ") + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("─", max(w, 1))) + "\n")

	list := m.list()
	if len(list) == 0 {
		b.WriteString(theme.StyleDimmed.Render("  Nothing here yet."))
		return b.String()
	}

	rows := max(h-2, 1)
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}

	now := m.Now()
	for i := start; i < len(list) && i < start+rows; i++ {
		prefix := "  "
		if i == m.selected {
			prefix = "> "
		}
		b.WriteString(prefix + m.row(list[i], w-2, now) + "\n")
	}
	if rest := len(list) - start - rows; rest > 0 {
		b.WriteString(theme.StyleDimmed.Render(fmt.Sprintf("  ↓ %d more", rest)))
	}
	return b.String()
}

func (m Model) row(a ach.Achievement, w int, now time.Time) string {
	glyph := theme.StyleDimmed.Render("○")
	switch {
	case a.Unlocked:
		glyph = lipgloss.NewStyle().Foreground(theme.ColorUnlocked).Render("★")
	case a.Status == ach.StatusCompleted:
		glyph = lipgloss.NewStyle().Foreground(theme.ColorComplete).Render("✓")
	case m.pinned[a.ID]:
		glyph = lipgloss.NewStyle().Foreground(theme.ColorPinned).Render("◆")
	}

	title := truncate(a.Title, max(w-barWidth-30, 10))
	left := glyph + " " + theme.GameBadge(a.GameID, a.GameName) + " " + title

	var right string
	if a.Status == ach.StatusCompleted {
		when := "undated"
		if a.Completion != nil {
			when = theme.RelativeDate(a.Completion.Date, now)
		}
		right = theme.StyleDimmed.Render(when)
	} else {
		right = theme.ProgressBar(a.ProgressValue, a.ProgressTarget, barWidth) + " " +
			theme.StyleDimmed.Render(progressText(a))
	}
	return left + "  " + right
}

// progressText describes how far along an available achievement is.
func progressText(a ach.Achievement) string {
	if a.ProgressLabel != "" {
		return fmt.Sprintf("%d/%d %s", a.ProgressValue, a.ProgressTarget, a.ProgressLabel)
	}
	return fmt.Sprintf("%d to go", a.RemainingPlays)
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
