package achievements

import (
	"fmt"
	"strings"
)

// Progress is the completion state of one achievement level.
type Progress struct {
	Complete       bool   `json:"complete"`
	RemainingPlays int    `json:"remainingPlays"`
	PlaysSoFar     int    `json:"playsSoFar"`
	Value          int    `json:"progressValue"`
	Target         int    `json:"progressTarget"`
	Label          string `json:"progressLabel"`
}

// Pluralize returns singular when n is exactly 1 and the plural form otherwise.
func Pluralize(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return plural(singular)
}

func plural(s string) string {
	for _, suffix := range []string{"s", "x", "ch", "sh"} {
		if strings.HasSuffix(s, suffix) {
			return s + "es"
		}
	}
	return s + "s"
}

// CounterProgress computes progress of a single counter toward target.
//
// A non-positive target is treated as 1 and a negative current as 0.
// Value never exceeds target.
func CounterProgress(current, target int, unit string) Progress {
	target = max(target, 1)
	current = max(current, 0)
	value := min(current, target)
	return Progress{
		Complete:       current >= target,
		RemainingPlays: max(0, target-current),
		PlaysSoFar:     value,
		Value:          value,
		Target:         target,
		Label:          fmt.Sprintf("%d/%d %s", value, target, Pluralize(target, unit)),
	}
}

// PerItemProgress computes how many items have reached target each.
//
// An empty item list is never complete. RemainingPlays is the total work
// left across all items, not the number of unmet items.
func PerItemProgress(items []Item, counts map[string]int, target int, unit string) Progress {
	if len(items) == 0 {
		return Progress{Label: fmt.Sprintf("0/0 at %d %s each", max(target, 0), Pluralize(target, unit))}
	}
	target = max(target, 1)

	var met, remaining, soFar int
	for _, it := range items {
		n := max(counts[it.ID], 0)
		if n >= target {
			met++
		}
		remaining += max(0, target-n)
		soFar += min(n, target)
	}
	return Progress{
		Complete:       met == len(items),
		RemainingPlays: remaining,
		PlaysSoFar:     soFar,
		Value:          met,
		Target:         len(items),
		Label:          fmt.Sprintf("%d/%d at %d %s each", met, len(items), target, Pluralize(target, unit)),
	}
}
