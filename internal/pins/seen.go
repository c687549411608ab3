package pins

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// SnapshotInterval is the minimum time between snapshot updates.
const SnapshotInterval = 10 * time.Minute

const seenFileName = "seen.json"

type seenFile struct {
	Seen       []string  `json:"seen"`
	Snapshot   []string  `json:"snapshot"`
	SnapshotAt time.Time `json:"snapshotAt"`
}

// SeenStore records completed achievements the user has seen, plus a
// periodic snapshot of completed ids used for "new since last visit".
type SeenStore struct {
	path   string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewSeenStore stores seen state in dir, or DefaultDir when dir is empty.
func NewSeenStore(dir string, logger zerolog.Logger) *SeenStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &SeenStore{path: filepath.Join(dir, seenFileName), logger: logger}
}

func (s *SeenStore) load() seenFile {
	var f seenFile
	if err := readJSON(s.path, &f); err != nil {
		s.logger.Warn().Err(err).Msg("failed to read seen state")
		return seenFile{}
	}
	return f
}

func (s *SeenStore) save(f seenFile) {
	if err := writeJSON(s.path, f); err != nil {
		s.logger.Warn().Err(err).Msg("failed to save seen state")
	}
}

// Seen returns the ids marked as seen.
func (s *SeenStore) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seen := s.load().Seen; seen != nil {
		return seen
	}
	return []string{}
}

// MarkSeen adds ids to the seen set.
func (s *SeenStore) MarkSeen(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.load()
	f.Seen = lo.Uniq(append(f.Seen, ids...))
	s.save(f)
}

// Unseen returns the ids in completed that have not been marked seen.
func (s *SeenStore) Unseen(completed []string) []string {
	return difference(completed, s.Seen())
}

// Snapshot returns the last snapshot and when it was taken.
func (s *SeenStore) Snapshot() ([]string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.load()
	return f.Snapshot, f.SnapshotAt
}

// MaybeSnapshot replaces the snapshot with completed when at least
// SnapshotInterval has passed since the last one. It reports whether the
// snapshot was updated.
func (s *SeenStore) MaybeSnapshot(completed []string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.load()
	if !f.SnapshotAt.IsZero() && now.Sub(f.SnapshotAt) < SnapshotInterval {
		return false
	}
	f.Snapshot = lo.Uniq(completed)
	f.SnapshotAt = now.UTC()
	s.save(f)
	return true
}

// SinceSnapshot returns the ids in completed that were not completed at the
// last snapshot. Before the first snapshot nothing is considered new.
func (s *SeenStore) SinceSnapshot(completed []string) []string {
	snap, at := s.Snapshot()
	if at.IsZero() {
		return []string{}
	}
	return difference(completed, snap)
}

func difference(ids, known []string) []string {
	set := lo.SliceToMap(known, func(id string) (string, bool) { return id, true })
	return lo.Filter(ids, func(id string, _ int) bool { return !set[id] })
}
