package achievements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterProgress_Overshoot(t *testing.T) {
	p := CounterProgress(7, 5, "win")
	assert.Equal(t, Progress{
		Complete:       true,
		RemainingPlays: 0,
		PlaysSoFar:     5,
		Value:          5,
		Target:         5,
		Label:          "5/5 wins",
	}, p)
}

func TestCounterProgress_Clamping(t *testing.T) {
	tests := []struct {
		name            string
		current, target int
		wantTarget      int
		wantValue       int
		wantRemaining   int
		wantLabel       string
	}{
		{"zero target floors to one", 0, 0, 1, 0, 1, "0/1 play"},
		{"negative target floors to one", 3, -4, 1, 1, 0, "1/1 play"},
		{"negative current floors to zero", -2, 3, 3, 0, 3, "0/3 plays"},
		{"partial", 2, 10, 10, 2, 8, "2/10 plays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := CounterProgress(tt.current, tt.target, "play")
			assert.Equal(t, tt.wantTarget, p.Target)
			assert.Equal(t, tt.wantValue, p.Value)
			assert.Equal(t, tt.wantRemaining, p.RemainingPlays)
			assert.Equal(t, tt.wantLabel, p.Label)
		})
	}
}

func TestCounterProgress_Properties(t *testing.T) {
	for target := 1; target <= 12; target++ {
		for current := 0; current <= 15; current++ {
			p := CounterProgress(current, target, "play")
			assert.LessOrEqual(t, p.Value, target)
			if current <= target {
				assert.Equal(t, target, p.RemainingPlays+p.Value, "current=%d target=%d", current, target)
			}
			assert.Equal(t, p.Complete, p.RemainingPlays == 0, "current=%d target=%d", current, target)
		}
	}
}

func TestPerItemProgress_EmptyIsNeverComplete(t *testing.T) {
	p := PerItemProgress(nil, map[string]int{}, 3, "win")
	assert.False(t, p.Complete)
	assert.Equal(t, 0, p.Target)
	assert.Equal(t, 0, p.Value)
	assert.Equal(t, 0, p.RemainingPlays)
}

func TestPerItemProgress_SumsRemainingWork(t *testing.T) {
	items := []Item{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"}}
	counts := map[string]int{"a": 5, "b": 1}

	p := PerItemProgress(items, counts, 3, "win")
	assert.False(t, p.Complete)
	assert.Equal(t, 1, p.Value)
	assert.Equal(t, 3, p.Target)
	assert.Equal(t, 0+2+3, p.RemainingPlays)
	assert.Equal(t, 3+1+0, p.PlaysSoFar)
	assert.Equal(t, "1/3 at 3 wins each", p.Label)
}

func TestPerItemProgress_AllMet(t *testing.T) {
	items := []Item{{ID: "a"}, {ID: "b"}}
	p := PerItemProgress(items, map[string]int{"a": 1, "b": 4}, 1, "play")
	assert.True(t, p.Complete)
	assert.Equal(t, 0, p.RemainingPlays)
	assert.Equal(t, "2/2 at 1 play each", p.Label)
}

func TestPerItemProgress_Properties(t *testing.T) {
	items := []Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			counts := map[string]int{"a": a, "b": b, "c": 2}
			for target := 0; target < 4; target++ {
				p := PerItemProgress(items, counts, target, "play")
				assert.LessOrEqual(t, p.Value, p.Target)
				assert.Equal(t, len(items), p.Target)
				assert.Equal(t, p.Complete, p.Value == p.Target)
			}
		}
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "win", Pluralize(1, "win"))
	assert.Equal(t, "wins", Pluralize(0, "win"))
	assert.Equal(t, "wins", Pluralize(2, "win"))
	assert.Equal(t, "matches", Pluralize(3, "match"))
}
