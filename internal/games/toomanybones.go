package games

import (
	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
)

var (
	gearlocRole = role{name: "gearloc", category: "gearlocs", keys: []string{"G", "Gearloc"}, unknown: "Unknown Gearloc"}
	tyrantRole  = role{name: "tyrant", category: "tyrants", keys: []string{"T", "Tyrant"}, unknown: "Unknown Tyrant"}
)

// TooManyBones is cooperative: each seat tags its gearloc and the tyrant is
// shared.
type TooManyBones struct{ base }

func NewTooManyBones(d *content.Dictionary) *TooManyBones { return &TooManyBones{base{d}} }

func (g *TooManyBones) Resolve(p play.Play, username string) (Entry, bool) {
	mine, ok := play.FindPlayer(p, username)
	if !ok {
		return Entry{}, false
	}
	e := newEntry(p, mine.Won())
	e.All = make(map[string][]string)

	var seats []map[string]string
	for _, pl := range p.Players {
		seat := resolveText(g.dict, pl.Color, []role{gearlocRole, tyrantRole})
		seats = append(seats, seat)
		e.All["gearloc"] = append(e.All["gearloc"], seat["gearloc"])
		if pl == mine {
			e.Values["gearloc"] = seat["gearloc"]
		}
	}
	e.Values["tyrant"] = mergeShared(seats, tyrantRole, g.dict.Sentinels)
	e.Summary = summarize(e.Values["gearloc"], e.Values["tyrant"])
	return e, true
}

func (g *TooManyBones) Tracks(entries []Entry) []achievements.Track {
	return []achievements.Track{
		playsTrack(entries, g.Name()),
		winsTrack(entries, g.Name()),
		perItemTrack(entries, itemTrack{
			id:        "gearlocPlays:each",
			unit:      "play",
			levels:    PerItemLevels,
			title:     eachTitle("Bring", "gearloc"),
			preferred: g.dict.Items("gearlocs"),
			labels:    allLabels("gearloc"),
		}),
		perItemTrack(entries, itemTrack{
			id:        "tyrantWins:each",
			unit:      "win",
			levels:    PerItemLevels,
			title:     eachTitle("Defeat", "tyrant"),
			preferred: g.dict.Items("tyrants"),
			labels:    roleLabel("tyrant"),
			pred:      isWin,
		}),
	}
}
