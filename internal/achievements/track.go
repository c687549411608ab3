// Package achievements turns counts derived from logged plays into leveled
// achievement tracks and orders them for display.
package achievements

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Kind identifies how a track measures progress.
type Kind string

const (
	KindCounter Kind = "counter"
	KindPerItem Kind = "perItem"
)

// Status is an achievement's unlock state.
type Status string

const (
	StatusAvailable Status = "available"
	StatusCompleted Status = "completed"
)

// ErrInvalidLevels is returned by Track.Validate for empty, non-positive or
// non-increasing level lists.
var ErrInvalidLevels = errors.New("invalid track levels")

// Completion records the play that first satisfied a level.
type Completion struct {
	PlayID int    `json:"playId"`
	Date   string `json:"date,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Track is a named, leveled progression.
type Track struct {
	// ID is "<category>:<name>", e.g. "villainWins:each". The part before
	// the first colon drives the default TypeLabel.
	ID        string
	TypeLabel string
	Kind      Kind
	// Levels must be strictly increasing and start at 1 or higher.
	Levels []int
	// Base is the id fragment used in achievement ids. Defaults to a
	// slug of ID.
	Base     string
	Title    func(level int) string
	Progress func(level int) Progress
	// Completion is optional; when set it is called for completed levels.
	Completion func(level int) *Completion
}

// Validate checks the level invariants.
func (t Track) Validate() error {
	if len(t.Levels) == 0 {
		return fmt.Errorf("%w: %s has no levels", ErrInvalidLevels, t.ID)
	}
	prev := 0
	for _, lvl := range t.Levels {
		if lvl <= prev {
			return fmt.Errorf("%w: %s level %d after %d", ErrInvalidLevels, t.ID, lvl, prev)
		}
		prev = lvl
	}
	return nil
}

// BaseID returns the id fragment shared by every achievement of the track.
func (t Track) BaseID() string {
	if t.Base != "" {
		return t.Base
	}
	return Slugify(t.ID)
}

// Achievement is one unlocked or next-to-unlock level of a track.
type Achievement struct {
	ID             string      `json:"id"`
	GameID         string      `json:"gameId"`
	GameName       string      `json:"gameName"`
	TrackID        string      `json:"trackId"`
	TypeLabel      string      `json:"typeLabel"`
	Kind           Kind        `json:"kind"`
	Status         Status      `json:"status"`
	Title          string      `json:"title"`
	Level          int         `json:"level"`
	RemainingPlays int         `json:"remainingPlays"`
	PlaysSoFar     int         `json:"playsSoFar"`
	ProgressValue  int         `json:"progressValue"`
	ProgressTarget int         `json:"progressTarget"`
	ProgressLabel  string      `json:"progressLabel"`
	Completion     *Completion `json:"completion,omitempty"`
	// Unlocked is set by SortUnlocked on pinned completed achievements
	// shown in the available list.
	Unlocked bool `json:"unlocked,omitempty"`
}

// AchievementID returns the deterministic id for one level of a track.
func AchievementID(gameID, base string, level int) string {
	return fmt.Sprintf("%s-%s-%d", gameID, base, level)
}

// BuildTrackAchievements walks t.Levels in order, emitting a completed
// achievement per satisfied level and stopping after the first level that
// is not satisfied, which is emitted as available. A track whose levels are
// all satisfied yields no available achievement.
func BuildTrackAchievements(gameID, gameName string, t Track) []Achievement {
	typeLabel := TypeLabelFor(t)
	base := t.BaseID()

	var out []Achievement
	for _, level := range t.Levels {
		p := t.Progress(level)
		a := Achievement{
			ID:             AchievementID(gameID, base, level),
			GameID:         gameID,
			GameName:       gameName,
			TrackID:        t.ID,
			TypeLabel:      typeLabel,
			Kind:           t.Kind,
			Title:          titleFor(t, level),
			Level:          level,
			RemainingPlays: p.RemainingPlays,
			PlaysSoFar:     p.PlaysSoFar,
			ProgressValue:  p.Value,
			ProgressTarget: p.Target,
			ProgressLabel:  p.Label,
		}
		if !p.Complete {
			a.Status = StatusAvailable
			out = append(out, a)
			break
		}
		a.Status = StatusCompleted
		if t.Completion != nil {
			a.Completion = t.Completion(level)
		}
		out = append(out, a)
	}
	return out
}

func titleFor(t Track, level int) string {
	if t.Title != nil {
		return t.Title(level)
	}
	return fmt.Sprintf("%s %d", TypeLabelFor(t), level)
}

// TypeLabelFor returns the track's explicit type label, or a humanized
// form of the id prefix before its first colon.
func TypeLabelFor(t Track) string {
	if t.TypeLabel != "" {
		return t.TypeLabel
	}
	prefix, _, _ := strings.Cut(t.ID, ":")
	return Humanize(prefix)
}

// Humanize splits s at camel-case boundaries and separators and title-cases
// each word: "villainWins" -> "Villain Wins", "per_item-plays" -> "Per Item Plays".
func Humanize(s string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])):
			flush()
		}
		cur = append(cur, r)
	}
	flush()

	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
