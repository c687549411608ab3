package games

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
)

func embedded(t *testing.T, id string) *content.Dictionary {
	t.Helper()
	set, err := content.LoadEmbedded()
	require.NoError(t, err)
	d, err := set.Get(id)
	require.NoError(t, err)
	return d
}

func dictionary(t *testing.T, doc string) *content.Dictionary {
	t.Helper()
	d, err := content.Load(strings.NewReader(doc))
	require.NoError(t, err)
	return d
}

func solo(id int, date, color string, win bool) play.Play {
	w := "0"
	if win {
		w = "1"
	}
	return play.Play{
		ID:         id,
		Attributes: map[string]string{"date": date},
		Players:    []play.Player{{Username: "me", Color: color, Win: w}},
	}
}

func TestFinalGirl_Resolve(t *testing.T) {
	g := NewFinalGirl(embedded(t, "finalgirl"))

	tests := []struct {
		name  string
		color string
		want  map[string]string
	}{
		{
			name:  "explicit keys with fullwidth separator",
			color: "V: Babysitter／L: Camp Site",
			want:  map[string]string{"villain": "The Babysitter", "location": "Camp Happy Trails", "finalGirl": "Unknown Final Girl"},
		},
		{
			name:  "bare segments are classified",
			color: "Hans / Manor / Laurie",
			want:  map[string]string{"villain": "Hans the Butcher", "location": "Creech Manor", "finalGirl": "Laurie"},
		},
		{
			name:  "explicit key wins over bare token",
			color: "Killer: Poltergeist | Hans",
			want:  map[string]string{"villain": "The Poltergeist", "location": "Unknown Location", "finalGirl": "Unknown Final Girl"},
		},
		{
			name:  "unknown explicit names pass through",
			color: "V: The  Tall Man",
			want:  map[string]string{"villain": "The Tall Man", "location": "Unknown Location", "finalGirl": "Unknown Final Girl"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := g.Resolve(solo(1, "2024-01-01", tt.color, true), "me")
			require.True(t, ok)
			assert.Equal(t, tt.want, e.Values)
			assert.True(t, e.Win)
		})
	}
}

func TestSpiritIsland_Resolve(t *testing.T) {
	g := NewSpiritIsland(embedded(t, "spiritisland"))

	tests := []struct {
		color     string
		spirit    string
		adversary string
		level     int
	}{
		{"S: River／A: England 3", "River Surges in Sunlight", "England", 3},
		{"River / Sweden / Lvl: 2", "River Surges in Sunlight", "Sweden", 2},
		{"Earth / Prussia 6", "Vital Strength of the Earth", "Brandenburg-Prussia", 6},
		{"S: Shadows／A: No Adversary", "Shadows Flicker Like Flame", "No Adversary", 0},
		{"Bringer", "Bringer of Dreams and Nightmares", "Unknown Adversary", 0},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			e, ok := g.Resolve(solo(1, "", tt.color, false), "me")
			require.True(t, ok)
			assert.Equal(t, tt.spirit, e.Value("spirit"))
			assert.Equal(t, tt.adversary, e.Value("adversary"))
			assert.Equal(t, tt.level, e.Level)
		})
	}
}

func coop(id int, seats ...play.Player) play.Play {
	return play.Play{ID: id, Attributes: map[string]string{"date": "2024-02-01"}, Players: seats}
}

func TestMarvelChampions_Resolve(t *testing.T) {
	g := NewMarvelChampions(embedded(t, "marvelchampions"))

	p := coop(1,
		play.Player{Username: "me", Color: "H: Thor／A: Justice／V: Rhino", Win: "1"},
		play.Player{Username: "ann", Color: "H: Hulk／A: Aggression／V: Klaw", Win: "1"},
		play.Player{Username: "bo", Color: "Spidey / Klaw"},
	)
	e, ok := g.Resolve(p, "me")
	require.True(t, ok)
	assert.Equal(t, "Thor", e.Value("hero"))
	assert.Equal(t, "Justice", e.Value("aspect"))
	assert.Equal(t, "Klaw", e.Value("villain"), "most common villain across seats")
	assert.Equal(t, []string{"Thor", "Hulk", "Spider-Man"}, e.All["hero"])
	assert.True(t, e.Win)

	tie := coop(2,
		play.Player{Username: "me", Color: "H: Thor／V: Rhino"},
		play.Player{Username: "ann", Color: "H: Hulk／V: Klaw"},
	)
	e, ok = g.Resolve(tie, "me")
	require.True(t, ok)
	assert.Equal(t, "Rhino", e.Value("villain"), "ties go to the first seen")

	none := coop(3, play.Player{Username: "me", Color: "H: Thor"}, play.Player{Username: "ann", Color: "H: Hulk"})
	e, _ = g.Resolve(none, "me")
	assert.Equal(t, "Unknown Villain", e.Value("villain"))

	_, ok = g.Resolve(tie, "carol")
	assert.False(t, ok, "multi-seat plays without the user are skipped")
}

func TestTooManyBones_Resolve(t *testing.T) {
	g := NewTooManyBones(embedded(t, "toomanybones"))

	p := coop(1,
		play.Player{Username: "me", Color: "G: Boomer／T: Nom", Win: "1"},
		play.Player{Username: "ann", Color: "Patches / Nom"},
	)
	e, ok := g.Resolve(p, "me")
	require.True(t, ok)
	assert.Equal(t, "Boomer", e.Value("gearloc"))
	assert.Equal(t, "Nom", e.Value("tyrant"))
	assert.Equal(t, []string{"Boomer", "Patches"}, e.All["gearloc"])
}

func TestBuildEntries(t *testing.T) {
	g := NewFinalGirl(embedded(t, "finalgirl"))
	fg := &play.Item{ObjectID: 277659, Name: "Final Girl"}

	plays := []play.Play{
		solo(1, "2024-01-01", "V: Hans", true),
		solo(2, "2024-01-02", "V: Hans", false),
		solo(3, "2024-01-03", "V: Hans", true),
		{ID: 4, Item: fg, Players: []play.Player{{Username: "x"}, {Username: "y"}}},
		{ID: 5, Item: &play.Item{Name: "Chess"}, Players: []play.Player{{Username: "me"}}},
	}
	for i := range 3 {
		plays[i].Item = fg
	}
	plays[1].Attributes["incomplete"] = "1"
	plays[2].Attributes["nowinstats"] = "1"

	entries := BuildEntries(g, plays, "me")
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].PlayID)
	assert.Equal(t, 3, entries[1].PlayID)
	assert.False(t, entries[1].Win, "nowinstats plays never count as wins")
}

func achievementsFor(g Game, entries []Entry) map[string][]achievements.Achievement {
	out := make(map[string][]achievements.Achievement)
	for _, tr := range g.Tracks(entries) {
		out[tr.ID] = achievements.BuildTrackAchievements(g.ID(), g.Name(), tr)
	}
	return out
}

func TestFinalGirl_Tracks(t *testing.T) {
	g := NewFinalGirl(embedded(t, "finalgirl"))
	entries := []Entry{
		{PlayID: 10, Date: "2024-01-03", Quantity: 2, Win: true, Values: map[string]string{"villain": "Hans the Butcher"}, Summary: "Hans the Butcher"},
		{PlayID: 11, Date: "2024-01-01", Quantity: 1, Win: false, Values: map[string]string{"villain": "The Poltergeist"}},
		{PlayID: 12, Date: "", Quantity: 1, Win: true, Values: map[string]string{"villain": "The Poltergeist"}},
	}
	got := achievementsFor(g, entries)

	plays := got["plays:total"]
	require.Len(t, plays, 2)
	assert.Equal(t, "finalgirl-plays-total-1", plays[0].ID)
	assert.Equal(t, achievements.StatusCompleted, plays[0].Status)
	require.NotNil(t, plays[0].Completion)
	assert.Equal(t, 11, plays[0].Completion.PlayID, "earliest dated play")
	assert.Equal(t, achievements.StatusAvailable, plays[1].Status)
	assert.Equal(t, 1, plays[1].RemainingPlays)
	assert.Equal(t, "Play Final Girl 5 times", plays[1].Title)

	wins := got["wins:total"]
	require.Len(t, wins, 2)
	assert.Equal(t, 10, wins[0].Completion.PlayID)
	assert.Equal(t, "Hans the Butcher", wins[0].Completion.Detail)
	assert.Equal(t, "3/5 wins", wins[1].ProgressLabel)

	villains := got["villainWins:each"]
	require.Len(t, villains, 1)
	assert.Equal(t, achievements.StatusAvailable, villains[0].Status)
	assert.Equal(t, 2, villains[0].ProgressValue)
	assert.Equal(t, len(g.dict.Items("villains")), villains[0].ProgressTarget)
	assert.Equal(t, "Villain Wins", villains[0].TypeLabel)
}

func TestSpiritIsland_MaxLevelTrack(t *testing.T) {
	d := dictionary(t, `
game: spiritisland
name: Spirit Island
sentinels: [No Adversary]
categories:
  spirits: [River]
  adversaries: [England, Sweden]
`)
	g := NewSpiritIsland(d)
	entry := func(id int, date, adv string, level int, win bool) Entry {
		return Entry{PlayID: id, Date: date, Quantity: 1, Win: win, Level: level,
			Values: map[string]string{"spirit": "River", "adversary": adv}}
	}
	entries := []Entry{
		entry(1, "2024-01-01", "England", 2, true),
		entry(2, "2024-01-02", "Sweden", 1, true),
		entry(3, "2024-01-03", "Sweden", 4, false),
		entry(4, "2024-01-04", "No Adversary", 0, true),
		entry(5, "2024-01-05", "Sweden", 2, true),
	}

	got := achievementsFor(g, entries)["adversaryLevel:each"]
	require.Len(t, got, 3)
	assert.Equal(t, achievements.StatusCompleted, got[0].Status)
	assert.Equal(t, 2, got[0].Completion.PlayID)
	assert.Equal(t, achievements.StatusCompleted, got[1].Status)
	assert.Equal(t, 5, got[1].Completion.PlayID)

	next := got[2]
	assert.Equal(t, achievements.StatusAvailable, next.Status)
	assert.Equal(t, 3, next.Level)
	assert.Equal(t, 2, next.ProgressTarget, "sentinel adversaries are not items")
	assert.Equal(t, 0, next.ProgressValue)
	assert.Equal(t, 2, next.RemainingPlays)
	assert.Equal(t, "Adversary Level", next.TypeLabel)
}

func TestTracks_Validate(t *testing.T) {
	set, err := content.LoadEmbedded()
	require.NoError(t, err)
	reg, err := NewRegistry(set)
	require.NoError(t, err)

	for _, g := range reg.Games() {
		for _, tr := range g.Tracks(nil) {
			assert.NoError(t, tr.Validate(), "%s %s", g.ID(), tr.ID)
		}
	}
}

func TestNewRegistry(t *testing.T) {
	set, err := content.LoadEmbedded()
	require.NoError(t, err)
	reg, err := NewRegistry(set)
	require.NoError(t, err)

	var ids []string
	for _, g := range reg.Games() {
		ids = append(ids, g.ID())
	}
	assert.Equal(t, []string{"finalgirl", "marvelchampions", "spiritisland", "toomanybones"}, ids)

	g, ok := reg.Get("spiritisland")
	require.True(t, ok)
	assert.Equal(t, "Spirit Island", g.Name())

	_, err = NewRegistry(content.NewSet(embedded(t, "finalgirl")))
	assert.ErrorIs(t, err, content.ErrUnknownGame)
}

func TestBuildEntries_PlayFacts(t *testing.T) {
	g := NewFinalGirl(embedded(t, "finalgirl"))
	p := solo(3, "2024-05-01", "V: Hans", true)
	p.Item = &play.Item{ObjectID: 277659, Name: "Final Girl"}
	p.Attributes["location"] = "Home"
	p.Attributes["length"] = "45"
	p.Attributes["quantity"] = "0"

	entries := BuildEntries(g, []play.Play{p}, "me")
	require.Len(t, entries, 1)
	assert.Equal(t, "Home", entries[0].Location)
	assert.Equal(t, 45, entries[0].Minutes)
	assert.Equal(t, 1, entries[0].Quantity, "non-positive quantity counts once")
}
