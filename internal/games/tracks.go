package games

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/programmatix/game-tracker/internal/achievements"
)

// Default level ladders.
var (
	PlayLevels    = []int{1, 5, 10, 25, 50, 100, 250}
	WinLevels     = []int{1, 5, 10, 25, 50, 100}
	PerItemLevels = []int{1, 3, 5, 10}
)

func isWin(e Entry) bool { return e.Win }

// counterTrack counts the quantity of entries matching pred (all when nil).
func counterTrack(entries []Entry, id, unit string, levels []int, pred func(Entry) bool, title func(int) string) achievements.Track {
	total := 0
	for _, e := range entries {
		if pred == nil || pred(e) {
			total += e.Quantity
		}
	}
	return achievements.Track{
		ID:     id,
		Kind:   achievements.KindCounter,
		Levels: levels,
		Title:  title,
		Progress: func(level int) achievements.Progress {
			return achievements.CounterProgress(total, level, unit)
		},
		Completion: func(level int) *achievements.Completion {
			e, ok := achievements.FindCompletionEntry(entries, level, pred)
			if !ok {
				return nil
			}
			return &achievements.Completion{PlayID: e.PlayID, Date: e.Date, Detail: e.Summary}
		},
	}
}

func playsTrack(entries []Entry, gameName string) achievements.Track {
	return counterTrack(entries, "plays:total", "play", PlayLevels, nil, func(level int) string {
		return fmt.Sprintf("Play %s %d %s", gameName, level, achievements.Pluralize(level, "time"))
	})
}

func winsTrack(entries []Entry, gameName string) achievements.Track {
	return counterTrack(entries, "wins:total", "win", WinLevels, isWin, func(level int) string {
		return fmt.Sprintf("Win %s %d %s", gameName, level, achievements.Pluralize(level, "time"))
	})
}

// itemTrack describes a checklist track over one role.
type itemTrack struct {
	id        string
	typeLabel string
	unit      string
	levels    []int
	title     func(level int) string
	preferred []achievements.Item
	sentinels []string
	// labels returns the role labels an entry contributes to.
	labels func(Entry) []string
	// pred filters which entries count; nil counts all.
	pred func(Entry) bool
}

func (s itemTrack) counts(e Entry) bool { return s.pred == nil || s.pred(e) }

func (s itemTrack) matches(e Entry, it achievements.Item) bool {
	if !s.counts(e) {
		return false
	}
	want := achievements.NormalizeLabel(it.Label)
	return slices.ContainsFunc(s.labels(e), func(l string) bool {
		return achievements.NormalizeLabel(l) == want
	})
}

// observe lists one observation per distinct label of each entry. Entries
// that do not count still register their labels with amount 0 so the item
// shows up in the checklist.
func (s itemTrack) observe(entries []Entry, amount func(Entry) int) achievements.CanonicalInput {
	in := achievements.CanonicalInput{Preferred: s.preferred, Sentinels: s.sentinels}
	for _, e := range entries {
		n := 0
		if s.counts(e) {
			n = amount(e)
		}
		for _, l := range lo.Uniq(s.labels(e)) {
			in.Observed = append(in.Observed, achievements.Observation{Label: l, Amount: n})
		}
	}
	return in
}

// perItemTrack requires every item to reach the level in summed quantity.
func perItemTrack(entries []Entry, s itemTrack) achievements.Track {
	c := achievements.BuildCanonicalCounts(s.observe(entries, func(e Entry) int { return e.Quantity }))
	return achievements.Track{
		ID:        s.id,
		TypeLabel: s.typeLabel,
		Kind:      achievements.KindPerItem,
		Levels:    s.levels,
		Title:     s.title,
		Progress: func(level int) achievements.Progress {
			return achievements.PerItemProgress(c.Items, c.Values, level, s.unit)
		},
		Completion: func(level int) *achievements.Completion {
			return describe(entries, achievements.PerItemCompletion(entries, c.Items, level, s.matches))
		},
	}
}

// maxLevelTrack requires every item to reach the level in its highest
// Entry.Level among counted entries.
func maxLevelTrack(entries []Entry, s itemTrack) achievements.Track {
	c := achievements.BuildCanonicalMaxValues(s.observe(entries, func(e Entry) int { return e.Level }))
	return achievements.Track{
		ID:        s.id,
		TypeLabel: s.typeLabel,
		Kind:      achievements.KindPerItem,
		Levels:    s.levels,
		Title:     s.title,
		Progress: func(level int) achievements.Progress {
			return achievements.PerItemProgress(c.Items, c.Values, level, s.unit)
		},
		Completion: func(level int) *achievements.Completion {
			atLevel := func(e Entry, it achievements.Item) bool {
				return e.Level >= level && s.matches(e, it)
			}
			return describe(entries, achievements.PerItemCompletion(entries, c.Items, 1, atLevel))
		},
	}
}

// describe attaches the summary of the completing entry.
func describe(entries []Entry, c *achievements.Completion) *achievements.Completion {
	if c == nil {
		return nil
	}
	if e, ok := lo.Find(entries, func(e Entry) bool { return e.PlayID == c.PlayID }); ok {
		c.Detail = e.Summary
	}
	return c
}

func roleLabel(role string) func(Entry) []string {
	return func(e Entry) []string {
		if v := e.Values[role]; v != "" {
			return []string{v}
		}
		return nil
	}
}

func allLabels(role string) func(Entry) []string {
	return func(e Entry) []string { return e.All[role] }
}

func eachTitle(verb, noun string) func(int) string {
	return func(level int) string {
		return fmt.Sprintf("%s every %s %d %s", verb, noun, level, achievements.Pluralize(level, "time"))
	}
}
