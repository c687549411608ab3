// Package play models logged plays as produced by the play-log parser.
package play

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// ErrMalformedLog is returned when a play log cannot be decoded.
var ErrMalformedLog = errors.New("malformed play log")

// Item identifies the game a play was logged against.
type Item struct {
	ObjectID   int    `json:"objectid"`
	ObjectType string `json:"objecttype"`
	Name       string `json:"name"`
}

// Player is one seat of a play. Color holds the free-text tag field.
type Player struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Color    string `json:"color"`
	Win      string `json:"win"`
}

// Won reports whether the player is flagged as a winner.
func (p Player) Won() bool { return strings.TrimSpace(p.Win) == "1" }

// Play is one logged session. Attributes carries the raw string attributes
// (date, quantity, length, location, incomplete, nowinstats).
type Play struct {
	ID         int               `json:"id"`
	Attributes map[string]string `json:"attributes"`
	Item       *Item             `json:"item,omitempty"`
	Players    []Player          `json:"players"`
}

func (p Play) attr(key string) string {
	return strings.TrimSpace(p.Attributes[key])
}

// Date returns the ISO date of the play, or "" when unknown.
func (p Play) Date() string { return p.attr("date") }

// Location returns where the play happened.
func (p Play) Location() string { return p.attr("location") }

// Quantity returns how many sessions the record stands for. Missing,
// unparsable and non-positive values count as 1.
func (p Play) Quantity() int {
	n, err := strconv.Atoi(p.attr("quantity"))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// Length returns the play length in minutes, or 0 when invalid.
func (p Play) Length() int {
	n, err := strconv.Atoi(p.attr("length"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Incomplete reports whether the play was abandoned.
func (p Play) Incomplete() bool { return p.attr("incomplete") == "1" }

// NoWinStats reports whether the play is excluded from win statistics.
func (p Play) NoWinStats() bool { return p.attr("nowinstats") == "1" }

// IsGame reports whether the play was logged against one of the given
// object ids or, failing that, one of the given names (case-insensitive).
func (p Play) IsGame(ids []int, names []string) bool {
	if p.Item == nil {
		return false
	}
	if p.Item.ObjectID != 0 && slices.Contains(ids, p.Item.ObjectID) {
		return true
	}
	name := strings.TrimSpace(p.Item.Name)
	if name == "" {
		return false
	}
	return slices.ContainsFunc(names, func(n string) bool {
		return strings.EqualFold(strings.TrimSpace(n), name)
	})
}

// FindPlayer returns the seat belonging to username. When username is empty
// or absent and the play has a single seat, that seat is returned.
func FindPlayer(p Play, username string) (Player, bool) {
	username = strings.TrimSpace(username)
	if username != "" {
		for _, pl := range p.Players {
			if strings.EqualFold(strings.TrimSpace(pl.Username), username) {
				return pl, true
			}
		}
	}
	if len(p.Players) == 1 {
		return p.Players[0], true
	}
	return Player{}, false
}

// Decode reads a JSON array of plays.
func Decode(r io.Reader) ([]Play, error) {
	var plays []Play
	if err := json.NewDecoder(r).Decode(&plays); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	return plays, nil
}

// LoadFile reads the play log at path.
func LoadFile(path string) ([]Play, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening play log: %w", err)
	}
	defer f.Close()
	plays, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plays, nil
}
