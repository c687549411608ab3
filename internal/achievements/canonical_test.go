package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCanonicalCounts_MergesObservedOntoPreferred(t *testing.T) {
	got := BuildCanonicalCounts(CanonicalInput{
		Preferred: []Item{
			{ID: "babysitter", Label: "The Babysitter"},
			{ID: "slasher", Label: "The Slasher"},
		},
		Observed: []Observation{
			{Label: "the  babysitter ", Amount: 2},
			{Label: "THE BABYSITTER", Amount: 1},
			{Label: "Organ Harvester", Amount: 4},
		},
	})

	require.Len(t, got.Items, 3)
	assert.Equal(t, "babysitter", got.Items[0].ID)
	assert.Equal(t, "The Babysitter", got.Items[0].Label)
	assert.Equal(t, "organ-harvester", got.Items[2].ID)
	assert.Equal(t, 3, got.Values["babysitter"])
	assert.Equal(t, 0, got.Values["slasher"])
	assert.Equal(t, 4, got.Values["organ-harvester"])
}

func TestBuildCanonicalCounts_FirstPreferredWins(t *testing.T) {
	got := BuildCanonicalCounts(CanonicalInput{
		Preferred: []Item{
			{ID: "camp", Label: "Camp Happy Trails"},
			{ID: "camp-dup", Label: "camp happy  trails"},
		},
	})
	require.Len(t, got.Items, 1)
	assert.Equal(t, "camp", got.Items[0].ID)
}

func TestBuildCanonicalCounts_DropsMeaninglessLabels(t *testing.T) {
	got := BuildCanonicalCounts(CanonicalInput{
		Observed: []Observation{
			{Label: "", Amount: 1},
			{Label: "Unknown", Amount: 1},
			{Label: "unknown villain", Amount: 1},
			{Label: "No Adversary", Amount: 1},
			{Label: "England", Amount: 1},
		},
		Sentinels: []string{"no adversary"},
	})
	require.Len(t, got.Items, 1)
	assert.Equal(t, "England", got.Items[0].Label)
}

func TestBuildCanonicalCounts_Idempotent(t *testing.T) {
	first := BuildCanonicalCounts(CanonicalInput{
		Preferred: []Item{{ID: "a", Label: "Alpha"}, {Label: "Beta"}},
		Observed:  []Observation{{Label: "gamma", Amount: 3}, {Label: "ALPHA", Amount: 1}},
	})

	var again []Observation
	for _, it := range first.Items {
		again = append(again, Observation{ID: it.ID, Label: it.Label})
	}
	second := BuildCanonicalCounts(CanonicalInput{Observed: again})

	assert.Equal(t, first.Items, second.Items)
}

func TestBuildCanonicalMaxValues(t *testing.T) {
	got := BuildCanonicalMaxValues(CanonicalInput{
		Preferred: []Item{{ID: "england", Label: "England"}, {ID: "sweden", Label: "Sweden"}},
		Observed: []Observation{
			{Label: "England", Amount: 3},
			{Label: "england", Amount: 1},
			{Label: "England", Amount: 5},
		},
	})
	assert.Equal(t, 5, got.Values["england"])
	assert.Equal(t, 0, got.Values["sweden"])
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"The Babysitter":      "the-babysitter",
		"  Camp  Site  ":      "camp-site",
		"Devil's Cove":        "devils-cove",
		"Dr. Strange / Magic": "dr-strange-magic",
		"Spider-Man":          "spider-man",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestIsMeaningfulLabel(t *testing.T) {
	assert.True(t, IsMeaningfulLabel("Hans"))
	assert.False(t, IsMeaningfulLabel("   "))
	assert.False(t, IsMeaningfulLabel("Unknown Location"))
	assert.True(t, IsMeaningfulLabel("Unknowns"))
	assert.False(t, IsMeaningfulLabel("No Adversary", "no adversary"))
}
