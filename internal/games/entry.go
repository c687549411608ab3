// Package games turns logged plays into per-game entries and defines the
// achievement tracks each supported game offers.
package games

import (
	"strings"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/play"
)

// Entry is one play reduced to the facts one game cares about.
type Entry struct {
	PlayID   int    `json:"playId"`
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
	Win      bool   `json:"win"`
	Location string `json:"location,omitempty"`
	Minutes  int    `json:"minutes,omitempty"`
	// Values maps a role ("villain", "hero") to the resolved label. For
	// multi-seat games it holds the user's own seat and shared values.
	Values map[string]string `json:"values"`
	// All maps a role to the labels of every seat.
	All map[string][]string `json:"all,omitempty"`
	// Level is a difficulty level where the game has one.
	Level   int    `json:"level,omitempty"`
	Summary string `json:"summary"`
}

func (e Entry) EntryDate() string  { return e.Date }
func (e Entry) EntryPlayID() int   { return e.PlayID }
func (e Entry) EntryQuantity() int { return e.Quantity }

// Value returns the label resolved for role.
func (e Entry) Value(role string) string { return e.Values[role] }

var _ achievements.Chronological = Entry{}

// Game resolves plays of one title into entries and builds its tracks.
type Game interface {
	ID() string
	Name() string
	// Matches reports whether p was logged against this game.
	Matches(p play.Play) bool
	// Resolve reduces p to an entry from username's point of view. ok is
	// false when the play cannot be attributed to the user.
	Resolve(p play.Play, username string) (e Entry, ok bool)
	Tracks(entries []Entry) []achievements.Track
}

// BuildEntries resolves every complete play of g in plays.
func BuildEntries(g Game, plays []play.Play, username string) []Entry {
	var out []Entry
	for _, p := range plays {
		if !g.Matches(p) || p.Incomplete() {
			continue
		}
		if e, ok := g.Resolve(p, username); ok {
			out = append(out, e)
		}
	}
	return out
}

// newEntry fills the play-level fields of an entry.
func newEntry(p play.Play, win bool) Entry {
	return Entry{
		PlayID:   p.ID,
		Date:     p.Date(),
		Quantity: p.Quantity(),
		Win:      win && !p.NoWinStats(),
		Location: p.Location(),
		Minutes:  p.Length(),
		Values:   make(map[string]string),
	}
}

func summarize(labels ...string) string {
	var parts []string
	for _, l := range labels {
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " / ")
}
