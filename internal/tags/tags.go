// Package tags parses the free-text tag fields players attach to logged
// plays, e.g. "V: Babysitter／L: Camp Site".
package tags

import (
	"maps"
	"slices"
	"strings"
)

// segmentSeparators split a tag field into segments: slash, fullwidth
// solidus and pipe.
const segmentSeparators = "/／|"

// SplitSegments splits text into trimmed, non-empty segments.
func SplitSegments(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(segmentSeparators, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitKeyValue splits segment at its first ASCII or fullwidth colon.
func splitKeyValue(segment string) (key, value string, ok bool) {
	i := strings.IndexAny(segment, ":：")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(segment[:i])
	rest := segment[i:]
	if strings.HasPrefix(rest, "：") {
		rest = rest[len("："):]
	} else {
		rest = rest[1:]
	}
	value = strings.TrimSpace(rest)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}

// ParseKeyValueSegments returns the key/value pairs found in text. Segments
// without a colon, or with an empty key or value, are skipped. A repeated
// key keeps its last value.
func ParseKeyValueSegments(text string) map[string]string {
	out := make(map[string]string)
	for _, seg := range SplitSegments(text) {
		if k, v, ok := splitKeyValue(seg); ok {
			out[k] = v
		}
	}
	return out
}

// BareSegments returns the segments of text that are not key/value pairs,
// in order.
func BareSegments(text string) []string {
	var out []string
	for _, seg := range SplitSegments(text) {
		if _, _, ok := splitKeyValue(seg); ok {
			continue
		}
		// A segment like "V:" has a colon but no value; it is noise, not a bare name.
		if strings.ContainsAny(seg, ":：") {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// GetValue returns the first non-empty value among keys. Exact key matches
// are tried before case-insensitive ones.
func GetValue(m map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v, true
		}
	}
	sorted := slices.Sorted(maps.Keys(m))
	for _, k := range keys {
		for _, mk := range sorted {
			if v := m[mk]; v != "" && strings.EqualFold(mk, k) {
				return v, true
			}
		}
	}
	return "", false
}

// MostCommon returns the most frequent non-empty value, breaking ties by
// first appearance.
func MostCommon(values []string) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestN := "", 0
	for _, v := range order {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best, bestN > 0
}
