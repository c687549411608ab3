package games

import (
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/play"
)

// base carries the dictionary-derived identity shared by every game.
type base struct {
	dict *content.Dictionary
}

func (b base) ID() string   { return b.dict.GameID }
func (b base) Name() string { return b.dict.Name }

func (b base) Matches(p play.Play) bool {
	return p.IsGame(b.dict.BGGIDs, []string{b.dict.Name})
}
