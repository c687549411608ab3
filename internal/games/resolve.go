package games

import (
	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/tags"
)

// role is one fact a tag field can carry.
type role struct {
	name     string
	category string
	keys     []string
	unknown  string
}

// resolveRoles resolves each role from explicit key/value pairs first and
// then from bare segments classified against the dictionary. Roles left
// unresolved get their unknown label.
func resolveRoles(d *content.Dictionary, kv map[string]string, bare []string, roles []role) map[string]string {
	out := make(map[string]string, len(roles))
	for _, r := range roles {
		if v, ok := tags.GetValue(kv, r.keys...); ok {
			out[r.name] = canonicalValue(d, r.category, v)
		}
	}

	for _, seg := range bare {
		var open []string
		byCategory := make(map[string]role)
		for _, r := range roles {
			if _, done := out[r.name]; !done {
				open = append(open, r.category)
				byCategory[r.category] = r
			}
		}
		if len(open) == 0 {
			break
		}
		if cat, e, ok := d.Classify(seg, open...); ok {
			out[byCategory[cat].name] = e.Display
		}
	}

	for _, r := range roles {
		if _, ok := out[r.name]; !ok {
			out[r.name] = r.unknown
		}
	}
	return out
}

// resolveText is resolveRoles over a raw tag field.
func resolveText(d *content.Dictionary, text string, roles []role) map[string]string {
	return resolveRoles(d, tags.ParseKeyValueSegments(text), tags.BareSegments(text), roles)
}

// canonicalValue maps an explicit value onto the dictionary, exactly and
// then fuzzily. Unknown names pass through whitespace-collapsed.
func canonicalValue(d *content.Dictionary, category, raw string) string {
	if achievements.IsMeaningfulLabel(raw, d.Sentinels...) {
		if _, e, ok := d.Classify(raw, category); ok {
			return e.Display
		}
	}
	return d.Canonical(category, raw)
}

// mergeShared picks the value most seats agree on for a shared role such
// as the villain of a cooperative game.
func mergeShared(seats []map[string]string, r role, sentinels []string) string {
	var candidates []string
	for _, s := range seats {
		if v := s[r.name]; achievements.IsMeaningfulLabel(v, sentinels...) {
			candidates = append(candidates, v)
		}
	}
	if v, ok := tags.MostCommon(candidates); ok {
		return v
	}
	return r.unknown
}
