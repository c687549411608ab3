package detail

import (
	"strings"
	"testing"
	"time"

	ach "github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/games"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestViewCompleted(t *testing.T) {
	m := New(ach.Achievement{
		ID: "finalgirl-plays-total-1", GameID: "finalgirl", GameName: "Final Girl",
		Title: "Play Final Girl once", TypeLabel: "Plays", Level: 1, Status: ach.StatusCompleted,
		Completion: &ach.Completion{PlayID: 12, Date: "2024-03-08", Detail: "Hans / Camp Happy Trails"},
	}, true)
	m.Now = func() time.Time { return now }
	m.Entries = []games.Entry{
		{PlayID: 11, Date: "2024-03-01", Quantity: 1, Summary: "Poltergeist / Manor"},
		{PlayID: 12, Date: "2024-03-08", Quantity: 2, Win: true, Summary: "Hans / Camp Happy Trails", Location: "Home"},
	}

	out := m.View()
	for _, want := range []string{"Play Final Girl once", "(pinned)", "#12", "2 days ago", "2024-03-08",
		"Recent plays (2 total)", "x2", "@ Home", "[p] unpin"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestViewAvailable(t *testing.T) {
	m := New(ach.Achievement{
		ID: "spiritisland-adversaryWins-each-1", GameID: "spiritisland", GameName: "Spirit Island",
		Title: "Defeat every adversary", Status: ach.StatusAvailable,
		ProgressValue: 2, ProgressTarget: 6, ProgressLabel: "adversaries", RemainingPlays: 4, PlaysSoFar: 9,
	}, false)
	m.Now = func() time.Time { return now }
	m.PinError = "unauthenticated"

	out := m.View()
	for _, want := range []string{"2/6 adversaries", "4 (9 so far)", "Pin error: unauthenticated", "[p] pin"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestViewEmpty(t *testing.T) {
	if got := (Model{}).View(); got != "" {
		t.Errorf("empty model view = %q", got)
	}
}
