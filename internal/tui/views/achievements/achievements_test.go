package achievements

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	ach "github.com/programmatix/game-tracker/internal/achievements"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func partition() ach.Partition {
	return ach.Partition{
		Available: []ach.Achievement{
			{ID: "fg-1", GameID: "finalgirl", GameName: "Final Girl", Title: "Play Final Girl 5 times",
				Status: ach.StatusAvailable, ProgressValue: 3, ProgressTarget: 5, RemainingPlays: 2},
			{ID: "si-1", GameID: "spiritisland", GameName: "Spirit Island", Title: "Beat every adversary",
				Status: ach.StatusAvailable, ProgressValue: 1, ProgressTarget: 6, ProgressLabel: "adversaries"},
		},
		Completed: []ach.Achievement{
			{ID: "fg-0", GameID: "finalgirl", GameName: "Final Girl", Title: "Play Final Girl once",
				Status: ach.StatusCompleted, Completion: &ach.Completion{PlayID: 1, Date: "2024-03-07"}},
		},
	}
}

func TestNavigation(t *testing.T) {
	m := New()
	m.SetPartition(partition())

	a, ok := m.Selected()
	if !ok || a.ID != "fg-1" {
		t.Fatalf("initial selection = %q, want fg-1", a.ID)
	}

	m = m.Update(key("j"))
	m = m.Update(key("j"))
	if a, _ := m.Selected(); a.ID != "si-1" {
		t.Errorf("selection after j j = %q, want si-1 (clamped)", a.ID)
	}

	m = m.Update(key("tab"))
	if m.Tab() != TabCompleted {
		t.Fatalf("tab = %d, want completed", m.Tab())
	}
	if a, _ := m.Selected(); a.ID != "fg-0" {
		t.Errorf("selection on completed tab = %q, want fg-0", a.ID)
	}
}

func TestSetPartitionClampsSelection(t *testing.T) {
	m := New()
	m.SetPartition(partition())
	m = m.Update(key("j"))

	m.SetPartition(ach.Partition{Available: partition().Available[:1]})
	if a, _ := m.Selected(); a.ID != "fg-1" {
		t.Errorf("selection = %q, want fg-1", a.ID)
	}

	m.SetPartition(ach.Partition{})
	if _, ok := m.Selected(); ok {
		t.Error("empty partition should have no selection")
	}
}

func TestView(t *testing.T) {
	m := New()
	m.Now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	m.SetPartition(partition())
	m.SetPinned([]string{"si-1"})

	out := m.View(100, 20)
	for _, want := range []string{"Next up (2)", "Completed (1)", "Play Final Girl 5 times", "2 to go", "1/6 adversaries", "◆"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}

	m = m.Update(key("tab"))
	out = m.View(100, 20)
	if !strings.Contains(out, "3 days ago") {
		t.Errorf("completed view missing relative date:\n%s", out)
	}
}

func TestViewEmpty(t *testing.T) {
	m := New()
	if out := m.View(80, 10); !strings.Contains(out, "Nothing here yet.") {
		t.Errorf("empty view = %q", out)
	}
}
