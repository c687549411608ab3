// Package theme provides the Lip Gloss color palette and reusable styles
// for the ladder TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Game colors.
var (
	ColorFinalGirl       = lipgloss.Color("#dc2626")
	ColorSpiritIsland    = lipgloss.Color("#16a34a")
	ColorMarvelChampions = lipgloss.Color("#3b82f6")
	ColorTooManyBones    = lipgloss.Color("#d97706")
	ColorDefault         = lipgloss.Color("#9ca3af")
)

// Achievement state colors.
var (
	ColorAvailable = lipgloss.Color("#e5e7eb")
	ColorComplete  = lipgloss.Color("#16a34a")
	ColorPinned    = lipgloss.Color("#f59e0b")
	ColorUnlocked  = lipgloss.Color("#a855f7")
)

// Progress bar thresholds.
var (
	ColorProgressLow  = lipgloss.Color("#6b7280") // <50%
	ColorProgressMid  = lipgloss.Color("#d97706") // 50-80%
	ColorProgressHigh = lipgloss.Color("#22c55e") // >80%
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// GameColor returns the color for a game id.
func GameColor(gameID string) lipgloss.Color {
	switch gameID {
	case "finalgirl":
		return ColorFinalGirl
	case "spiritisland":
		return ColorSpiritIsland
	case "marvelchampions":
		return ColorMarvelChampions
	case "toomanybones":
		return ColorTooManyBones
	default:
		return ColorDefault
	}
}

// GameBadge returns a short colored badge for a game.
func GameBadge(gameID, name string) string {
	var initials []rune
	for _, w := range strings.Fields(name) {
		initials = append(initials, []rune(strings.ToUpper(w))[0])
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		initials = []rune{'?'}
	}
	return lipgloss.NewStyle().Foreground(GameColor(gameID)).Bold(true).Render("[" + string(initials) + "]")
}

// ProgressColor returns the color for a completed fraction.
func ProgressColor(frac float64) lipgloss.Color {
	switch {
	case frac > 0.8:
		return ColorProgressHigh
	case frac >= 0.5:
		return ColorProgressMid
	default:
		return ColorProgressLow
	}
}

// ProgressBar renders value/target as a bar width cells wide.
func ProgressBar(value, target, width int) string {
	if width <= 0 {
		return ""
	}
	frac := 0.0
	if target > 0 {
		frac = float64(value) / float64(target)
	}
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	bar := lipgloss.NewStyle().Foreground(ProgressColor(frac)).Render(strings.Repeat("█", filled))
	return bar + StyleDimmed.Render(strings.Repeat("░", width-filled))
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)
)

// RelativeDate renders an ISO play date relative to now ("3 days ago").
// Unknown or unparsable dates render as "undated".
func RelativeDate(date string, now time.Time) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "undated"
	}
	if now.Sub(t) < 24*time.Hour && !t.After(now) {
		return "today"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
