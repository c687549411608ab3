package achievements

import (
	"strings"
	"unicode"
)

// Item is a canonicalized entity tracked by a per-item achievement.
// ID is the stable key into count maps; Label is the display name.
type Item struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Observation is one observed label with the amount it contributes.
// ID may be empty, in which case it is derived from the label.
type Observation struct {
	ID     string
	Label  string
	Amount int
}

// CanonicalInput is the input to BuildCanonicalCounts and BuildCanonicalMaxValues.
type CanonicalInput struct {
	// Preferred seeds the item list in dictionary order.
	Preferred []Item
	Observed  []Observation
	// Sentinels are extra game-specific labels treated as missing data
	// (e.g. "no adversary"), compared after normalization.
	Sentinels []string
}

// Canonical is the merged item list plus a value per item ID.
// Every item in Items has an entry in Values.
type Canonical struct {
	Items  []Item         `json:"items"`
	Values map[string]int `json:"values"`
}

// NormalizeLabel trims, collapses internal whitespace and lowercases label.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// IsMeaningfulLabel reports whether label names a real entity rather than
// unparsed or missing data.
func IsMeaningfulLabel(label string, sentinels ...string) bool {
	n := NormalizeLabel(label)
	if n == "" || n == "unknown" || strings.HasPrefix(n, "unknown ") {
		return false
	}
	for _, s := range sentinels {
		if n == NormalizeLabel(s) {
			return false
		}
	}
	return true
}

// Slugify lowercases s and reduces it to [a-z0-9] runs joined by single
// dashes. Labels that differ only in punctuation share a slug.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		// Apostrophes join words ("Devil's" -> "devils") instead of splitting them.
		if r == '\'' || r == '’' {
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// BuildCanonicalCounts merges observed labels onto the preferred items and
// sums amounts per item.
func BuildCanonicalCounts(in CanonicalInput) Canonical {
	return buildCanonical(in, func(cur, v int) int { return cur + v })
}

// BuildCanonicalMaxValues merges like BuildCanonicalCounts but keeps the
// largest observed amount per item.
func BuildCanonicalMaxValues(in CanonicalInput) Canonical {
	return buildCanonical(in, func(cur, v int) int { return max(cur, v) })
}

func buildCanonical(in CanonicalInput, reduce func(cur, v int) int) Canonical {
	out := Canonical{Values: make(map[string]int)}
	byLabel := make(map[string]Item)

	add := func(id, label string) Item {
		key := NormalizeLabel(label)
		if existing, ok := byLabel[key]; ok {
			return existing
		}
		label = strings.Join(strings.Fields(label), " ")
		if id == "" {
			id = Slugify(label)
		}
		it := Item{ID: id, Label: label}
		byLabel[key] = it
		out.Items = append(out.Items, it)
		if _, ok := out.Values[id]; !ok {
			out.Values[id] = 0
		}
		return it
	}

	for _, p := range in.Preferred {
		if !IsMeaningfulLabel(p.Label, in.Sentinels...) {
			continue
		}
		add(p.ID, p.Label)
	}
	for _, o := range in.Observed {
		if !IsMeaningfulLabel(o.Label, in.Sentinels...) {
			continue
		}
		it := add(o.ID, o.Label)
		out.Values[it.ID] = reduce(out.Values[it.ID], o.Amount)
	}
	return out
}
