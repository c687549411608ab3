package achievements

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// PinSet is a set of pinned achievement ids.
type PinSet map[string]bool

// NewPinSet builds a PinSet from ids.
func NewPinSet(ids []string) PinSet {
	return lo.SliceToMap(ids, func(id string) (string, bool) { return id, true })
}

// Partition splits achievements into the "next up" and "done" lists.
type Partition struct {
	Available []Achievement `json:"available"`
	Completed []Achievement `json:"completed"`
}

// SortUnlocked partitions achievements for display.
//
// Available holds every available achievement plus every pinned achievement
// regardless of status; pinned completed ones are copied with Unlocked set.
// It is ordered pinned first, then by fewest remaining plays, most plays so
// far, and title. Completed holds unpinned completed achievements ordered by
// level descending, then title.
func SortUnlocked(all []Achievement, pinned PinSet) Partition {
	var p Partition
	for _, a := range all {
		switch {
		case pinned[a.ID]:
			if a.Status == StatusCompleted {
				a.Unlocked = true
			}
			p.Available = append(p.Available, a)
		case a.Status == StatusAvailable:
			p.Available = append(p.Available, a)
		case a.Status == StatusCompleted:
			p.Completed = append(p.Completed, a)
		}
	}
	sortAvailable(p.Available, pinned)
	slices.SortStableFunc(p.Completed, func(a, b Achievement) int {
		if c := cmp.Compare(b.Level, a.Level); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
	return p
}

func sortAvailable(list []Achievement, pinned PinSet) {
	slices.SortStableFunc(list, func(a, b Achievement) int {
		pa, pb := pinned[a.ID], pinned[b.ID]
		if pa != pb {
			if pa {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.RemainingPlays, b.RemainingPlays); c != 0 {
			return c
		}
		if c := cmp.Compare(b.PlaysSoFar, a.PlaysSoFar); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
}

// NextAchievements returns every pinned achievement from the available
// list followed by enough unpinned available achievements to reach limit.
// Pinned achievements are never dropped, so the result may exceed limit.
func NextAchievements(all []Achievement, pinned PinSet, limit int) []Achievement {
	available := SortUnlocked(all, pinned).Available
	pinnedFirst, rest := lo.FilterReject(available, func(a Achievement, _ int) bool {
		return pinned[a.ID]
	})
	room := max(limit-len(pinnedFirst), 0)
	if len(rest) > room {
		rest = rest[:room]
	}
	return append(pinnedFirst, rest...)
}
