package fx

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/config"
	"github.com/programmatix/game-tracker/internal/content"
	"github.com/programmatix/game-tracker/internal/database"
	"github.com/programmatix/game-tracker/internal/games"
	"github.com/programmatix/game-tracker/internal/ladder"
	"github.com/programmatix/game-tracker/internal/logger"
	"github.com/programmatix/game-tracker/internal/mock"
	"github.com/programmatix/game-tracker/internal/monitor"
	"github.com/programmatix/game-tracker/internal/pins"
	"github.com/programmatix/game-tracker/internal/repository"
	"github.com/programmatix/game-tracker/internal/ws"
)

// Flags are the command-line settings that shape the object graph.
type Flags struct {
	ConfigPath string
	Port       int
	Mock       bool
	MockSeed   int64
}

// ProvideConfig loads the config file, applies env overrides and flags, and
// validates the result. Mock mode points the ladder at a scratch play log.
func ProvideConfig(flags Flags) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if flags.Port > 0 {
		cfg.Server.Port = flags.Port
	}
	if flags.Mock {
		cfg.Ladder.PlaysPath = filepath.Join(os.TempDir(), "game-tracker-mock", "plays.json")
		if cfg.Ladder.Username == "" {
			cfg.Ladder.Username = "me"
		}
	}
	if cfg.Storage.StateDir == "" {
		cfg.Storage.StateDir = pins.DefaultDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel)
}

// ProvideContent loads dictionaries from the configured directory, or the
// embedded set when none is configured.
func ProvideContent(cfg *config.Config, log zerolog.Logger) (*content.Set, error) {
	var (
		set *content.Set
		err error
	)
	if cfg.Ladder.ContentDir != "" {
		set, err = content.LoadDir(cfg.Ladder.ContentDir)
	} else {
		set, err = content.LoadEmbedded()
	}
	if err != nil {
		return nil, err
	}
	log.Info().Strs("games", set.GameIDs()).Str("dir", cfg.Ladder.ContentDir).Msg("loaded content dictionaries")
	return set, nil
}

func ProvideSeenStore(cfg *config.Config, log zerolog.Logger) *pins.SeenStore {
	return pins.NewSeenStore(cfg.Storage.StateDir, log)
}

func ProvidePinStore(repo *repository.PinRepository) ws.PinStore {
	return repo
}

// ProvideBroadcaster pushes the stored ladder sorted with the configured
// user's server-side pins.
func ProvideBroadcaster(cfg *config.Config, store *ladder.Store, pinStore ws.PinStore, seen *pins.SeenStore, log zerolog.Logger) *ws.Broadcaster {
	snapshot := func() (ws.SnapshotPayload, bool) {
		res, at, ok := store.Get()
		if !ok {
			return ws.SnapshotPayload{}, false
		}
		ids, err := pinStore.Get(context.Background(), cfg.Ladder.Username)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load pins for snapshot")
		}
		all := res.Achievements()
		p := achievements.SortUnlocked(all, achievements.NewPinSet(ids))
		return ws.SnapshotPayload{
			Username:         res.Username,
			ComputedAt:       at,
			Available:        p.Available,
			Completed:        p.Completed,
			NewSinceSnapshot: ws.NewSinceSnapshot(seen, all),
		}, true
	}
	return ws.NewBroadcaster(snapshot, cfg.Monitor.SnapshotInterval, cfg.Server.MaxConnections, log)
}

func ProvideServer(cfg *config.Config, svc *ladder.Service, store *ladder.Store, pinStore ws.PinStore, seen *pins.SeenStore, b *ws.Broadcaster, mon *monitor.Monitor, log zerolog.Logger) *ws.Server {
	s := ws.NewServer(ws.Options{
		Username:       cfg.Ladder.Username,
		AuthToken:      cfg.Server.AuthToken,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		NextLimit:      cfg.Ladder.NextLimit,
	}, svc, store, pinStore, b, log)
	s.SetHealthHook(mon.Health)
	s.SetSeenState(seen)
	return s
}

func ProvideMonitor(cfg *config.Config, svc *ladder.Service, store *ladder.Store, seen *pins.SeenStore, b *ws.Broadcaster, log zerolog.Logger) *monitor.Monitor {
	return monitor.NewMonitor(monitor.Options{
		PlaysPath: cfg.Ladder.PlaysPath,
		Username:  cfg.Ladder.Username,
		Throttle:  cfg.Monitor.ReloadThrottle,
	}, svc, store, seen, b, log)
}

func ProvideGenerator(flags Flags, cfg *config.Config, set *content.Set, log zerolog.Logger) *mock.Generator {
	start := time.Now().AddDate(0, 0, -365).Truncate(24 * time.Hour)
	return mock.NewGenerator(set, cfg.Ladder.Username, flags.MockSeed, start, log)
}

var Module = fx.Options(
	fx.Provide(ProvideConfig),
	fx.Provide(ProvideLogger),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPinRepository),
	fx.Provide(ProvidePinStore),
	fx.Provide(ProvideSeenStore),
	// ladder
	fx.Provide(ProvideContent),
	fx.Provide(games.NewRegistry),
	fx.Provide(ladder.NewService),
	fx.Provide(ladder.NewStore),
	// server
	fx.Provide(ProvideBroadcaster),
	fx.Provide(ProvideMonitor),
	fx.Provide(ProvideServer),
	fx.Provide(ProvideGenerator),
)
