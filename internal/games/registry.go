package games

import (
	"fmt"

	"github.com/programmatix/game-tracker/internal/content"
)

// constructors lists the supported games in registry order.
var constructors = []struct {
	id  string
	new func(*content.Dictionary) Game
}{
	{"finalgirl", func(d *content.Dictionary) Game { return NewFinalGirl(d) }},
	{"marvelchampions", func(d *content.Dictionary) Game { return NewMarvelChampions(d) }},
	{"spiritisland", func(d *content.Dictionary) Game { return NewSpiritIsland(d) }},
	{"toomanybones", func(d *content.Dictionary) Game { return NewTooManyBones(d) }},
}

// Registry holds the supported games keyed by id.
type Registry struct {
	games []Game
	byID  map[string]Game
}

// NewRegistry builds every supported game from its dictionary in set. A
// missing dictionary is an error.
func NewRegistry(set *content.Set) (*Registry, error) {
	r := &Registry{byID: make(map[string]Game, len(constructors))}
	for _, c := range constructors {
		d, err := set.Get(c.id)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", c.id, err)
		}
		r.add(c.new(d))
	}
	return r, nil
}

// NewRegistryOf builds a registry from explicit games.
func NewRegistryOf(games ...Game) *Registry {
	r := &Registry{byID: make(map[string]Game, len(games))}
	for _, g := range games {
		r.add(g)
	}
	return r
}

func (r *Registry) add(g Game) {
	r.games = append(r.games, g)
	r.byID[g.ID()] = g
}

// Get returns the game with id.
func (r *Registry) Get(id string) (Game, bool) {
	g, ok := r.byID[id]
	return g, ok
}

// Games returns the games in registry order.
func (r *Registry) Games() []Game {
	out := make([]Game, len(r.games))
	copy(out, r.games)
	return out
}
