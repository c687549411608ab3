package achievements

import (
	"cmp"
	"slices"
)

// Chronological is implemented by per-game entries so completion provenance
// can be located without knowing the game.
type Chronological interface {
	EntryDate() string
	EntryPlayID() int
	EntryQuantity() int
}

// SortChronologically returns a sorted copy of entries: by date ascending
// with undated entries last, then by play id. The order is total.
func SortChronologically[E Chronological](entries []E) []E {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareChronological[E])
	return out
}

func compareChronological[E Chronological](a, b E) int {
	da, db := a.EntryDate(), b.EntryDate()
	switch {
	case da == "" && db != "":
		return 1
	case da != "" && db == "":
		return -1
	}
	if c := cmp.Compare(da, db); c != 0 {
		return c
	}
	return cmp.Compare(a.EntryPlayID(), b.EntryPlayID())
}

// FindCompletionEntry replays entries chronologically, accumulating quantity
// for entries matching pred (all entries when pred is nil), and returns the
// first entry at which the running total reaches target. ok is false when
// the target is never reached.
func FindCompletionEntry[E Chronological](entries []E, target int, pred func(E) bool) (entry E, ok bool) {
	total := 0
	for _, e := range SortChronologically(entries) {
		if pred != nil && !pred(e) {
			continue
		}
		total += max(e.EntryQuantity(), 0)
		if total >= target {
			return e, true
		}
	}
	return entry, false
}

// PerItemCompletion locates the play that completed a per-item level: the
// chronologically latest of the plays that brought each item to target.
// matches reports whether an entry counts toward an item.
func PerItemCompletion[E Chronological](entries []E, items []Item, target int, matches func(E, Item) bool) *Completion {
	if len(items) == 0 {
		return nil
	}
	var last E
	for i, it := range items {
		e, ok := FindCompletionEntry(entries, target, func(e E) bool { return matches(e, it) })
		if !ok {
			return nil
		}
		if i == 0 || compareChronological(e, last) > 0 {
			last = e
		}
	}
	return &Completion{PlayID: last.EntryPlayID(), Date: last.EntryDate()}
}
