package games

import (
	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
)

var finalGirlRoles = []role{
	{name: "villain", category: "villains", keys: []string{"V", "Villain", "K", "Killer"}, unknown: "Unknown Villain"},
	{name: "location", category: "locations", keys: []string{"L", "Location"}, unknown: "Unknown Location"},
	{name: "finalGirl", category: "final_girls", keys: []string{"G", "FG", "Final Girl"}, unknown: "Unknown Final Girl"},
}

// FinalGirl is the solo game of killers, locations and final girls. The
// user's seat tags e.g. "V: Hans／L: Camp／G: Laurie".
type FinalGirl struct{ base }

func NewFinalGirl(d *content.Dictionary) *FinalGirl { return &FinalGirl{base{d}} }

func (g *FinalGirl) Resolve(p play.Play, username string) (Entry, bool) {
	seat, ok := play.FindPlayer(p, username)
	if !ok {
		return Entry{}, false
	}
	e := newEntry(p, seat.Won())
	e.Values = resolveText(g.dict, seat.Color, finalGirlRoles)
	e.Summary = summarize(e.Values["villain"], e.Values["location"], e.Values["finalGirl"])
	return e, true
}

func (g *FinalGirl) Tracks(entries []Entry) []achievements.Track {
	return []achievements.Track{
		playsTrack(entries, g.Name()),
		winsTrack(entries, g.Name()),
		perItemTrack(entries, itemTrack{
			id:        "villainWins:each",
			unit:      "win",
			levels:    PerItemLevels,
			title:     eachTitle("Defeat", "killer"),
			preferred: g.dict.Items("villains"),
			labels:    roleLabel("villain"),
			pred:      isWin,
		}),
		perItemTrack(entries, itemTrack{
			id:        "locationPlays:each",
			unit:      "play",
			levels:    PerItemLevels,
			title:     eachTitle("Survive at", "location"),
			preferred: g.dict.Items("locations"),
			labels:    roleLabel("location"),
		}),
		perItemTrack(entries, itemTrack{
			id:        "finalGirlPlays:each",
			unit:      "play",
			levels:    PerItemLevels,
			title:     eachTitle("Play", "final girl"),
			preferred: g.dict.Items("final_girls"),
			labels:    roleLabel("finalGirl"),
		}),
	}
}
