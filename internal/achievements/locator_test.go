package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	id   int
	date string
	qty  int
	tag  string
}

func (e fakeEntry) EntryDate() string  { return e.date }
func (e fakeEntry) EntryPlayID() int   { return e.id }
func (e fakeEntry) EntryQuantity() int { return e.qty }

func TestFindCompletionEntry_CumulativeQuantity(t *testing.T) {
	entries := []fakeEntry{
		{id: 2, date: "2024-01-05", qty: 2},
		{id: 1, date: "2024-01-01", qty: 1},
	}
	got, ok := FindCompletionEntry(entries, 3, nil)
	require.True(t, ok)
	assert.Equal(t, 2, got.id)
}

func TestFindCompletionEntry_NotReached(t *testing.T) {
	entries := []fakeEntry{{id: 1, date: "2024-01-01", qty: 1}}
	_, ok := FindCompletionEntry(entries, 2, nil)
	assert.False(t, ok)
}

func TestFindCompletionEntry_ZeroTarget(t *testing.T) {
	entries := []fakeEntry{
		{id: 2, date: "2024-01-02", qty: 1, tag: "win"},
		{id: 1, date: "2024-01-01", qty: 1, tag: "loss"},
	}
	got, ok := FindCompletionEntry(entries, 0, nil)
	require.True(t, ok)
	assert.Equal(t, 1, got.id, "a zero target is reached by the first entry")

	got, ok = FindCompletionEntry(entries, 0, func(e fakeEntry) bool { return e.tag == "win" })
	require.True(t, ok)
	assert.Equal(t, 2, got.id)

	_, ok = FindCompletionEntry([]fakeEntry{}, 0, nil)
	assert.False(t, ok, "no entry, no provenance")
}

func TestFindCompletionEntry_Predicate(t *testing.T) {
	entries := []fakeEntry{
		{id: 1, date: "2024-01-01", qty: 1, tag: "win"},
		{id: 2, date: "2024-01-02", qty: 1, tag: "loss"},
		{id: 3, date: "2024-01-03", qty: 1, tag: "win"},
	}
	got, ok := FindCompletionEntry(entries, 2, func(e fakeEntry) bool { return e.tag == "win" })
	require.True(t, ok)
	assert.Equal(t, 3, got.id)
}

func TestSortChronologically_TotalOrder(t *testing.T) {
	entries := []fakeEntry{
		{id: 9, date: ""},
		{id: 5, date: "2024-02-01"},
		{id: 3, date: "2024-02-01"},
		{id: 1, date: ""},
		{id: 7, date: "2023-12-31"},
	}
	sorted := SortChronologically(entries)
	var ids []int
	for _, e := range sorted {
		ids = append(ids, e.id)
	}
	assert.Equal(t, []int{7, 3, 5, 1, 9}, ids)
	assert.Equal(t, 9, entries[0].id, "input must not be reordered")
}

func TestFindCompletionEntry_Monotonic(t *testing.T) {
	entries := []fakeEntry{
		{id: 4, date: "2024-03-01", qty: 2},
		{id: 1, date: "2024-01-01", qty: 1},
		{id: 3, date: "", qty: 3},
		{id: 2, date: "2024-01-01", qty: 1},
	}
	sorted := SortChronologically(entries)
	position := func(id int) int {
		for i, e := range sorted {
			if e.id == id {
				return i
			}
		}
		return -1
	}

	for t1 := 1; t1 <= 9; t1++ {
		for t2 := t1 + 1; t2 <= 9; t2++ {
			e1, ok1 := FindCompletionEntry(entries, t1, nil)
			e2, ok2 := FindCompletionEntry(entries, t2, nil)
			if !ok1 {
				assert.False(t, ok2, "t1=%d t2=%d", t1, t2)
				continue
			}
			if ok2 {
				assert.LessOrEqual(t, position(e1.id), position(e2.id), "t1=%d t2=%d", t1, t2)
			}
		}
	}
}

func TestPerItemCompletion_LatestItemWins(t *testing.T) {
	entries := []fakeEntry{
		{id: 1, date: "2024-01-01", qty: 1, tag: "a"},
		{id: 2, date: "2024-01-03", qty: 1, tag: "b"},
		{id: 3, date: "2024-01-02", qty: 1, tag: "a"},
	}
	items := []Item{{ID: "a"}, {ID: "b"}}
	match := func(e fakeEntry, it Item) bool { return e.tag == it.ID }

	c := PerItemCompletion(entries, items, 1, match)
	require.NotNil(t, c)
	assert.Equal(t, 2, c.PlayID)
	assert.Equal(t, "2024-01-03", c.Date)

	assert.Nil(t, PerItemCompletion(entries, items, 2, match))
}
