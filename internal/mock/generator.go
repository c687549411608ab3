// Package mock generates synthetic play logs for demo mode.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
)

// tagPart is one "key: value" segment of a generated tag field.
type tagPart struct {
	key      string
	category string
	// shared parts carry the same value for every seat.
	shared bool
	// maxLevel appends a difficulty level in 1..maxLevel when positive.
	maxLevel int
}

type mockGame struct {
	id      string
	bggID   int
	name    string
	parts   []tagPart
	seats   int
	winRate float64
	weight  int
}

var mockGames = []mockGame{
	{
		id: "finalgirl", bggID: 277659, name: "Final Girl",
		parts: []tagPart{
			{key: "V", category: "villains"},
			{key: "L", category: "locations"},
			{key: "FG", category: "final_girls"},
		},
		seats: 1, winRate: 0.55, weight: 4,
	},
	{
		id: "spiritisland", bggID: 162886, name: "Spirit Island",
		parts: []tagPart{
			{key: "S", category: "spirits"},
			{key: "A", category: "adversaries", shared: true, maxLevel: 6},
		},
		seats: 1, winRate: 0.6, weight: 3,
	},
	{
		id: "marvelchampions", bggID: 285774, name: "Marvel Champions",
		parts: []tagPart{
			{key: "H", category: "heroes"},
			{key: "A", category: "aspects"},
			{key: "V", category: "villains", shared: true},
		},
		seats: 2, winRate: 0.5, weight: 3,
	},
	{
		id: "toomanybones", bggID: 192135, name: "Too Many Bones",
		parts: []tagPart{
			{key: "G", category: "gearlocs"},
			{key: "T", category: "tyrants", shared: true},
		},
		seats: 2, winRate: 0.45, weight: 2,
	},
}

var partners = []string{"ann", "bob", "cas"}

type Generator struct {
	set      *content.Set
	username string
	rng      *rand.Rand
	start    time.Time
	nextID   int
	plays    []play.Play
	logger   zerolog.Logger
}

// NewGenerator returns a generator whose output depends only on seed.
// Plays are dated one per day from start.
func NewGenerator(set *content.Set, username string, seed int64, start time.Time, logger zerolog.Logger) *Generator {
	return &Generator{
		set:      set,
		username: username,
		rng:      rand.New(rand.NewSource(seed)),
		start:    start,
		nextID:   1,
		logger:   logger,
	}
}

// Plays returns every play generated so far.
func (g *Generator) Plays() []play.Play {
	out := make([]play.Play, len(g.plays))
	copy(out, g.plays)
	return out
}

// Generate appends n plays and returns them.
func (g *Generator) Generate(n int) []play.Play {
	out := make([]play.Play, 0, n)
	for i := 0; i < n; i++ {
		p := g.next()
		g.plays = append(g.plays, p)
		out = append(out, p)
	}
	return out
}

func (g *Generator) pickGame() mockGame {
	total := 0
	for _, mg := range mockGames {
		total += mg.weight
	}
	n := g.rng.Intn(total)
	for _, mg := range mockGames {
		if n < mg.weight {
			return mg
		}
		n -= mg.weight
	}
	return mockGames[0]
}

func (g *Generator) next() play.Play {
	mg := g.pickGame()
	id := g.nextID
	g.nextID++

	p := play.Play{
		ID: id,
		Attributes: map[string]string{
			"date":   g.start.AddDate(0, 0, id-1).Format("2006-01-02"),
			"length": strconv.Itoa(30 + g.rng.Intn(120)),
		},
		Item: &play.Item{ObjectID: mg.bggID, ObjectType: "thing", Name: mg.name},
	}
	if g.rng.Intn(10) == 0 {
		p.Attributes["quantity"] = "2"
	}

	won := g.rng.Float64() < mg.winRate
	shared := make(map[string]string)
	for _, part := range mg.parts {
		if part.shared {
			shared[part.key] = g.value(mg, part)
		}
	}

	for seat := 0; seat < mg.seats; seat++ {
		var segs []string
		for _, part := range mg.parts {
			v, ok := shared[part.key]
			if !ok {
				v = g.value(mg, part)
			}
			segs = append(segs, part.key+": "+v)
		}
		username := g.username
		if seat > 0 {
			username = partners[(id+seat)%len(partners)]
		}
		win := "0"
		if won {
			win = "1"
		}
		p.Players = append(p.Players, play.Player{
			Username: username,
			Color:    strings.Join(segs, "／"),
			Win:      win,
		})
	}
	return p
}

// value picks a display name, or an alias now and then so the resolver's
// alias handling is exercised.
func (g *Generator) value(mg mockGame, part tagPart) string {
	d, err := g.set.Get(mg.id)
	if err != nil {
		return "?"
	}
	entities := d.Entities(part.category)
	if len(entities) == 0 {
		return "?"
	}
	e := entities[g.rng.Intn(len(entities))]
	v := e.Display
	if len(e.Aliases) > 0 && g.rng.Intn(4) == 0 {
		v = e.Aliases[g.rng.Intn(len(e.Aliases))]
	}
	if part.maxLevel > 0 {
		v = fmt.Sprintf("%s %d", v, 1+g.rng.Intn(part.maxLevel))
	}
	return v
}

// WriteFile atomically replaces path with plays encoded as a JSON array.
func WriteFile(path string, plays []play.Play) error {
	data, err := json.MarshalIndent(plays, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".plays-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Run seeds path with initial plays, then appends one play per interval
// until ctx is done.
func (g *Generator) Run(ctx context.Context, path string, initial int, interval time.Duration) error {
	g.Generate(initial)
	if err := WriteFile(path, g.plays); err != nil {
		return fmt.Errorf("writing mock plays: %w", err)
	}
	g.logger.Info().Str("path", path).Int("plays", initial).Msg("mock play log seeded")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p := g.Generate(1)[0]
			if err := WriteFile(path, g.plays); err != nil {
				g.logger.Warn().Err(err).Msg("failed to write mock plays")
				continue
			}
			g.logger.Debug().Int("id", p.ID).Str("game", p.Item.Name).Msg("mock play logged")
		}
	}
}
