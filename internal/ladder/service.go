// Package ladder computes the achievement ladder across every supported game.
package ladder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/games"
	"github.com/programmatix/game-tracker/internal/play"
)

// GameResult is the computed ladder of one game.
type GameResult struct {
	GameID       string                     `json:"gameId"`
	GameName     string                     `json:"gameName"`
	Entries      []games.Entry              `json:"entries"`
	Achievements []achievements.Achievement `json:"achievements"`
}

// Result is the ladder across all games, in registry order.
type Result struct {
	Username string       `json:"username"`
	Games    []GameResult `json:"games"`
}

// Achievements concatenates every game's achievements.
func (r Result) Achievements() []achievements.Achievement {
	return lo.FlatMap(r.Games, func(g GameResult, _ int) []achievements.Achievement {
		return g.Achievements
	})
}

// Game returns the result for gameID.
func (r Result) Game(gameID string) (GameResult, bool) {
	return lo.Find(r.Games, func(g GameResult) bool { return g.GameID == gameID })
}

type Service struct {
	registry *games.Registry
	logger   zerolog.Logger
}

func NewService(registry *games.Registry, logger zerolog.Logger) *Service {
	return &Service{registry: registry, logger: logger}
}

// Registry returns the games the service computes.
func (s *Service) Registry() *games.Registry { return s.registry }

// Compute builds entries and achievements for every game concurrently. A
// game with an invalid track fails the whole computation.
func (s *Service) Compute(ctx context.Context, plays []play.Play, username string) (Result, error) {
	list := s.registry.Games()
	results := make([]GameResult, len(list))

	g, gCtx := errgroup.WithContext(ctx)
	for i, game := range list {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := computeGame(game, plays, username)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to compute achievements")
		return Result{}, fmt.Errorf("failed to compute achievements: %w", err)
	}

	for _, r := range results {
		s.logger.Debug().
			Str("game", r.GameID).
			Int("entries", len(r.Entries)).
			Int("achievements", len(r.Achievements)).
			Msg("game ladder computed")
	}
	return Result{Username: username, Games: results}, nil
}

func computeGame(g games.Game, plays []play.Play, username string) (GameResult, error) {
	entries := games.BuildEntries(g, plays, username)
	res := GameResult{GameID: g.ID(), GameName: g.Name(), Entries: entries}
	for _, t := range g.Tracks(entries) {
		if err := t.Validate(); err != nil {
			return GameResult{}, fmt.Errorf("%s: %w", g.ID(), err)
		}
		res.Achievements = append(res.Achievements, achievements.BuildTrackAchievements(g.ID(), g.Name(), t)...)
	}
	return res, nil
}

// CompletedIDs returns the ids of every completed achievement.
func CompletedIDs(list []achievements.Achievement) []string {
	return lo.FilterMap(list, func(a achievements.Achievement, _ int) (string, bool) {
		return a.ID, a.Status == achievements.StatusCompleted
	})
}

// Select returns the achievements whose ids are in ids, in list order.
func Select(list []achievements.Achievement, ids []string) []achievements.Achievement {
	want := achievements.NewPinSet(ids)
	return lo.Filter(list, func(a achievements.Achievement, _ int) bool { return want[a.ID] })
}

