package games

import (
	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
)

var (
	heroRole    = role{name: "hero", category: "heroes", keys: []string{"H", "Hero"}, unknown: "Unknown Hero"}
	aspectRole  = role{name: "aspect", category: "aspects", keys: []string{"A", "Aspect"}, unknown: "Unknown Aspect"}
	mcVillain   = role{name: "villain", category: "villains", keys: []string{"V", "Villain"}, unknown: "Unknown Villain"}
	marvelRoles = []role{heroRole, aspectRole, mcVillain}
)

// MarvelChampions is cooperative: every seat tags its hero and aspect, and
// any seat may tag the shared villain.
type MarvelChampions struct{ base }

func NewMarvelChampions(d *content.Dictionary) *MarvelChampions {
	return &MarvelChampions{base{d}}
}

func (g *MarvelChampions) Resolve(p play.Play, username string) (Entry, bool) {
	mine, ok := play.FindPlayer(p, username)
	if !ok {
		return Entry{}, false
	}
	e := newEntry(p, mine.Won())
	e.All = make(map[string][]string)

	var seats []map[string]string
	for _, pl := range p.Players {
		seat := resolveText(g.dict, pl.Color, marvelRoles)
		seats = append(seats, seat)
		e.All["hero"] = append(e.All["hero"], seat["hero"])
		e.All["aspect"] = append(e.All["aspect"], seat["aspect"])
		if pl == mine {
			e.Values["hero"] = seat["hero"]
			e.Values["aspect"] = seat["aspect"]
		}
	}
	e.Values["villain"] = mergeShared(seats, mcVillain, g.dict.Sentinels)
	e.Summary = summarize(e.Values["hero"], e.Values["aspect"], e.Values["villain"])
	return e, true
}

func (g *MarvelChampions) Tracks(entries []Entry) []achievements.Track {
	return []achievements.Track{
		playsTrack(entries, g.Name()),
		winsTrack(entries, g.Name()),
		perItemTrack(entries, itemTrack{
			id:        "heroPlays:each",
			unit:      "play",
			levels:    PerItemLevels,
			title:     eachTitle("Play", "hero"),
			preferred: g.dict.Items("heroes"),
			labels:    roleLabel("hero"),
		}),
		perItemTrack(entries, itemTrack{
			id:        "villainWins:each",
			unit:      "win",
			levels:    PerItemLevels,
			title:     eachTitle("Defeat", "villain"),
			preferred: g.dict.Items("villains"),
			labels:    roleLabel("villain"),
			pred:      isWin,
		}),
		perItemTrack(entries, itemTrack{
			id:        "aspectPlays:each",
			unit:      "play",
			levels:    PerItemLevels,
			title:     eachTitle("Play", "aspect"),
			preferred: g.dict.Items("aspects"),
			labels:    roleLabel("aspect"),
		}),
	}
}
