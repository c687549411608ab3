// Package monitor watches the play log and keeps the computed ladder
// current.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/programmatix/game-tracker/internal/achievements"
	"github.com/programmatix/game-tracker/internal/ladder"
	"github.com/programmatix/game-tracker/internal/pins"
	"github.com/programmatix/game-tracker/internal/play"
	"github.com/programmatix/game-tracker/internal/ws"
)

// Notifier receives the results of each reload.
type Notifier interface {
	BroadcastSnapshot()
	BroadcastUnlocked(list []achievements.Achievement)
}

// LoadFunc reads the play log.
type LoadFunc func(path string) ([]play.Play, error)

type Options struct {
	PlaysPath string
	Username  string
	// Throttle is the minimum time between reloads. Events arriving inside
	// the window are coalesced into one reload at its end.
	Throttle time.Duration
}

type Monitor struct {
	opts     Options
	service  *ladder.Service
	store    *ladder.Store
	seen     *pins.SeenStore
	notifier Notifier
	load     LoadFunc
	limiter  *rate.Limiter
	health   reloadHealth
	now      func() time.Time
	logger   zerolog.Logger

	mu       sync.Mutex // serializes reloads
	baseline bool
}

func NewMonitor(opts Options, service *ladder.Service, store *ladder.Store, seen *pins.SeenStore, notifier Notifier, logger zerolog.Logger) *Monitor {
	limit := rate.Inf
	if opts.Throttle > 0 {
		limit = rate.Every(opts.Throttle)
	}
	return &Monitor{
		opts:     opts,
		service:  service,
		store:    store,
		seen:     seen,
		notifier: notifier,
		load:     play.LoadFile,
		limiter:  rate.NewLimiter(limit, 1),
		now:      time.Now,
		logger:   logger.With().Str("component", "monitor").Logger(),
	}
}

// SetLoader replaces the function used to read the play log.
func (m *Monitor) SetLoader(load LoadFunc) {
	m.load = load
}

// Health reports the state of recent reloads.
func (m *Monitor) Health() ws.HealthPayload {
	return m.health.snapshot()
}

// Reload reads the play log, recomputes the ladder and announces
// achievements completed since they were last seen. A failed reload keeps
// the previous ladder.
//
// The first successful reload against an empty seen set records every
// completed achievement as seen without announcing them.
func (m *Monitor) Reload(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	plays, err := m.load(m.opts.PlaysPath)
	if err != nil {
		m.health.recordFailure(err, now)
		m.logger.Warn().Err(err).Str("path", m.opts.PlaysPath).Msg("failed to load play log")
		return fmt.Errorf("loading %s: %w", m.opts.PlaysPath, err)
	}

	res, err := m.service.Compute(ctx, plays, m.opts.Username)
	if err != nil {
		m.health.recordFailure(err, now)
		return err
	}
	version := m.store.Update(res, now)
	m.health.recordSuccess(now)

	all := res.Achievements()
	completed := ladder.CompletedIDs(all)
	seen := m.seen.Seen()

	switch {
	case !m.baseline && len(seen) == 0:
		m.seen.MarkSeen(completed...)
		m.logger.Info().Int("completed", len(completed)).Msg("recorded baseline of completed achievements")
	default:
		newly := ladder.Select(all, m.seen.Unseen(completed))
		if len(newly) > 0 {
			m.seen.MarkSeen(ladder.CompletedIDs(newly)...)
			m.notifier.BroadcastUnlocked(newly)
			for _, a := range newly {
				m.logger.Info().Str("id", a.ID).Str("title", a.Title).Msg("achievement unlocked")
			}
		}
	}
	m.baseline = true

	if m.seen.MaybeSnapshot(completed, now) {
		m.logger.Debug().Int("completed", len(completed)).Msg("took completion snapshot")
	}
	m.notifier.BroadcastSnapshot()

	m.logger.Info().
		Int("plays", len(plays)).
		Int("achievements", len(all)).
		Int("version", version).
		Msg("ladder reloaded")
	return nil
}

// Start reloads once, then watches the play log until ctx is done. The
// containing directory is watched so editors that replace the file are
// followed.
func (m *Monitor) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(m.opts.PlaysPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	m.logger.Info().Str("path", m.opts.PlaysPath).Msg("monitor started")
	if err := m.Reload(ctx); err != nil && errors.Is(err, context.Canceled) {
		return nil
	}

	target := filepath.Clean(m.opts.PlaysPath)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("monitor stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !relevant(event.Op) {
				continue
			}
			if pending != nil {
				continue
			}
			r := m.limiter.Reserve()
			pending = time.After(r.Delay())
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn().Err(err).Msg("file watcher error")
		case <-pending:
			pending = nil
			if err := m.Reload(ctx); err != nil {
				m.logger.Debug().Err(err).Msg("reload failed, keeping previous ladder")
			}
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
