package games

import (
	"strconv"
	"strings"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
	"github.com/programmatix/game-tracker/internal/tags"
)

var spiritIslandRoles = []role{
	{name: "spirit", category: "spirits", keys: []string{"S", "Spirit"}, unknown: "Unknown Spirit"},
	{name: "adversary", category: "adversaries", keys: []string{"A", "Adversary"}, unknown: "Unknown Adversary"},
}

// AdversaryLevels is the ladder of adversary difficulty levels.
var AdversaryLevels = []int{1, 2, 3, 4, 5, 6}

// SpiritIsland tags a spirit and an adversary with its level, e.g.
// "S: River／A: England 3" or "River／Sweden／Lvl: 2".
type SpiritIsland struct{ base }

func NewSpiritIsland(d *content.Dictionary) *SpiritIsland { return &SpiritIsland{base{d}} }

func (g *SpiritIsland) Resolve(p play.Play, username string) (Entry, bool) {
	seat, ok := play.FindPlayer(p, username)
	if !ok {
		return Entry{}, false
	}
	e := newEntry(p, seat.Won())

	kv := tags.ParseKeyValueSegments(seat.Color)
	level := -1
	if v, ok := tags.GetValue(kv, "Lvl", "Level"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			level = n
		}
	}
	for _, k := range []string{"A", "Adversary"} {
		if name, n, ok := splitLevel(kv[k]); ok {
			kv[k] = name
			if level < 0 {
				level = n
			}
		}
	}
	var bare []string
	for _, seg := range tags.BareSegments(seat.Color) {
		if name, n, ok := splitLevel(seg); ok {
			seg = name
			if level < 0 {
				level = n
			}
		}
		bare = append(bare, seg)
	}

	e.Values = resolveRoles(g.dict, kv, bare, spiritIslandRoles)
	e.Level = max(level, 0)
	adv := e.Values["adversary"]
	if achievements.IsMeaningfulLabel(adv, g.dict.Sentinels...) && level >= 0 {
		adv += " " + strconv.Itoa(level)
	}
	e.Summary = summarize(e.Values["spirit"], adv)
	return e, true
}

// splitLevel splits "England 3" into its name and trailing level.
func splitLevel(s string) (name string, level int, ok bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return "", 0, false
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return strings.Join(fields[:len(fields)-1], " "), n, true
}

func (g *SpiritIsland) Tracks(entries []Entry) []achievements.Track {
	return []achievements.Track{
		playsTrack(entries, g.Name()),
		winsTrack(entries, g.Name()),
		perItemTrack(entries, itemTrack{
			id:        "spiritPlays:each",
			unit:      "play",
			levels:    PerItemLevels,
			title:     eachTitle("Play", "spirit"),
			preferred: g.dict.Items("spirits"),
			labels:    roleLabel("spirit"),
		}),
		perItemTrack(entries, itemTrack{
			id:        "adversaryWins:each",
			unit:      "win",
			levels:    PerItemLevels,
			title:     eachTitle("Defeat", "adversary"),
			preferred: g.dict.Items("adversaries"),
			sentinels: g.dict.Sentinels,
			labels:    roleLabel("adversary"),
			pred:      isWin,
		}),
		maxLevelTrack(entries, itemTrack{
			id:        "adversaryLevel:each",
			typeLabel: "Adversary Level",
			unit:      "level",
			levels:    AdversaryLevels,
			title: func(level int) string {
				return "Defeat every adversary at level " + strconv.Itoa(level)
			},
			preferred: g.dict.Items("adversaries"),
			sentinels: g.dict.Sentinels,
			labels:    roleLabel("adversary"),
			pred:      isWin,
		}),
	}
}
