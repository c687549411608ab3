// Package feed keeps a scrollable log of unlocks and connection events.
package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	ach "github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/tui/theme"
)

const maxEntries = 200

// Kind classifies a feed line.
type Kind string

const (
	KindUnlock Kind = "unlock"
	KindConn   Kind = "conn"
	KindPin    Kind = "pin"
	KindError  Kind = "error"
	KindNew    Kind = "new"
)

// Entry is a single feed line.
type Entry struct {
	Time    time.Time
	Kind    Kind
	Message string
}

// Model holds feed state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset from the newest entry
	Now     func() time.Time
}

func New() Model {
	return Model{Now: time.Now}
}

// Add appends a line, capping the buffer and jumping back to the newest.
func (m *Model) Add(kind Kind, message string) {
	m.Entries = append(m.Entries, Entry{Time: m.Now(), Kind: kind, Message: message})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	m.Offset = 0
}

// AddUnlocks records one line per unlocked achievement.
func (m *Model) AddUnlocks(list []ach.Achievement) {
	for _, a := range list {
		m.Add(KindUnlock, fmt.Sprintf("%s: %s", a.GameName, a.Title))
	}
}

// AddNewSince records achievements completed since the last visit.
func (m *Model) AddNewSince(list []ach.Achievement) {
	for _, a := range list {
		m.Add(KindNew, fmt.Sprintf("new since last visit: %s: %s", a.GameName, a.Title))
	}
}

// Latest returns the newest entry of kind.
func (m Model) Latest(kind Kind) (Entry, bool) {
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].Kind == kind {
			return m.Entries[i], true
		}
	}
	return Entry{}, false
}

func (m *Model) ScrollUp(n int) {
	m.Offset = min(m.Offset+n, max(len(m.Entries)-1, 0))
}

func (m *Model) ScrollDown(n int) {
	m.Offset = max(m.Offset-n, 0)
}

// View renders the feed as an overlay panel, newest at the bottom.
func (m Model) View(width, height int) string {
	innerW := max(width-4, 20)
	visible := max(height-6, 3)

	title := theme.StyleHeader.Render(" ACTIVITY ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d entries", len(m.Entries)))
	panel := lipgloss.NewStyle().
		Width(innerW).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  Nothing has happened yet.")
		return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help))
	}

	end := len(m.Entries) - m.Offset
	start := max(end-visible, 0)

	var lines []string
	for _, e := range m.Entries[start:end] {
		ts := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
		kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(7).Render(string(e.Kind))
		msg := e.Message
		if r := []rune(msg); len(r) > innerW-20 && innerW > 23 {
			msg = string(r[:innerW-23]) + "..."
		}
		lines = append(lines, ts+" "+kind+" "+msg)
	}

	more := ""
	if m.Offset > 0 {
		more = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d newer", m.Offset))
	}
	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"), more, help))
}

func kindColor(k Kind) lipgloss.Color {
	switch k {
	case KindUnlock:
		return theme.ColorUnlocked
	case KindPin:
		return theme.ColorPinned
	case KindNew:
		return theme.ColorComplete
	case KindError:
		return theme.ColorDanger
	case KindConn:
		return theme.ColorHealthy
	default:
		return theme.ColorDimmed
	}
}
