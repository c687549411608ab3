// Package content loads the per-game dictionaries of official names
// (villains, locations, heroes, ...) used to canonicalize free-text tags.
package content

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/programmatix/game-tracker/internal/achievements"
)

// ErrInvalidDictionary is returned for dictionaries that cannot be used.
var ErrInvalidDictionary = errors.New("invalid content dictionary")

// Entity is one official name in a category.
type Entity struct {
	ID      string   `yaml:"id"`
	Display string   `yaml:"display"`
	Aliases []string `yaml:"aliases"`
	Group   string   `yaml:"group"`
	Cost    int      `yaml:"cost"`
}

// UnmarshalYAML accepts either a bare display string or a mapping.
func (e *Entity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Display = strings.TrimSpace(node.Value)
		return nil
	}
	type plain Entity
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = Entity(p)
	e.Display = strings.TrimSpace(e.Display)
	return nil
}

// Item returns the entity as an achievement item.
func (e Entity) Item() achievements.Item {
	return achievements.Item{ID: e.ID, Label: e.Display}
}

// Dictionary is the immutable content for one game.
type Dictionary struct {
	GameID    string
	Name      string
	BGGIDs    []int
	Sentinels []string

	categories map[string][]Entity
	// index maps category -> normalized name/alias/id -> entity position.
	index map[string]map[string]int
}

type document struct {
	Game       string              `yaml:"game"`
	Name       string              `yaml:"name"`
	BGGIDs     []int               `yaml:"bgg_ids"`
	Sentinels  []string            `yaml:"sentinels"`
	Categories map[string][]Entity `yaml:"categories"`
}

// Load parses a dictionary document. Any structural problem is an error:
// an empty dictionary would silently disable canonicalization.
func Load(r io.Reader) (*Dictionary, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDictionary, err)
	}
	if strings.TrimSpace(doc.Game) == "" {
		return nil, fmt.Errorf("%w: missing game id", ErrInvalidDictionary)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("%w: %s has no categories", ErrInvalidDictionary, doc.Game)
	}

	d := &Dictionary{
		GameID:     doc.Game,
		Name:       doc.Name,
		BGGIDs:     doc.BGGIDs,
		Sentinels:  doc.Sentinels,
		categories: make(map[string][]Entity, len(doc.Categories)),
		index:      make(map[string]map[string]int, len(doc.Categories)),
	}
	if d.Name == "" {
		d.Name = doc.Game
	}
	for cat, entities := range doc.Categories {
		if len(entities) == 0 {
			return nil, fmt.Errorf("%w: %s category %q is empty", ErrInvalidDictionary, doc.Game, cat)
		}
		idx := make(map[string]int)
		for i := range entities {
			e := &entities[i]
			if e.Display == "" {
				return nil, fmt.Errorf("%w: %s category %q entry %d has no display name", ErrInvalidDictionary, doc.Game, cat, i)
			}
			if e.ID == "" {
				e.ID = achievements.Slugify(e.Display)
			}
			for _, name := range append([]string{e.Display, e.ID}, e.Aliases...) {
				key := achievements.NormalizeLabel(name)
				if _, taken := idx[key]; !taken && key != "" {
					idx[key] = i
				}
			}
		}
		d.categories[cat] = entities
		d.index[cat] = idx
	}
	return d, nil
}

// Entities returns the category's entities in document order.
func (d *Dictionary) Entities(category string) []Entity {
	out := make([]Entity, len(d.categories[category]))
	copy(out, d.categories[category])
	return out
}

// Items returns the category's entities as achievement items.
func (d *Dictionary) Items(category string) []achievements.Item {
	entities := d.categories[category]
	out := make([]achievements.Item, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Item())
	}
	return out
}

// Lookup finds raw in category by display name, id or alias, ignoring case
// and surrounding or repeated whitespace.
func (d *Dictionary) Lookup(category, raw string) (Entity, bool) {
	i, ok := d.index[category][achievements.NormalizeLabel(raw)]
	if !ok {
		return Entity{}, false
	}
	return d.categories[category][i], true
}

// Canonical returns the display name for raw in category, or raw itself
// (whitespace-collapsed) when the dictionary does not know it.
func (d *Dictionary) Canonical(category, raw string) string {
	if e, ok := d.Lookup(category, raw); ok {
		return e.Display
	}
	return strings.Join(strings.Fields(raw), " ")
}

// minFuzzyLength is the shortest token considered for fuzzy matching.
const minFuzzyLength = 4

// Classify resolves a bare token against the given categories. Exact
// matches are tried across all categories first. Otherwise the closest name
// within an edit-distance limit wins, with ties going to the earlier
// category and then the earlier entity.
func (d *Dictionary) Classify(raw string, categories ...string) (category string, e Entity, ok bool) {
	for _, cat := range categories {
		if e, ok := d.Lookup(cat, raw); ok {
			return cat, e, true
		}
	}

	token := achievements.NormalizeLabel(raw)
	if len([]rune(token)) < minFuzzyLength {
		return "", Entity{}, false
	}
	bestDist := -1
	for _, cat := range categories {
		for _, ent := range d.categories[cat] {
			for _, name := range append([]string{ent.Display}, ent.Aliases...) {
				cand := achievements.NormalizeLabel(name)
				dist := levenshtein.ComputeDistance(token, cand)
				if dist > distanceLimit(len([]rune(cand))) {
					continue
				}
				if bestDist < 0 || dist < bestDist {
					bestDist, category, e = dist, cat, ent
				}
			}
		}
	}
	return category, e, bestDist >= 0
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
