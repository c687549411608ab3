package pins

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/programmatix/game-tracker/internal/achievements"
)

type pinFile struct {
	Username string    `json:"username"`
	IDs      []string  `json:"ids"`
	Updated  time.Time `json:"updated"`
}

// LocalStore keeps one pin file per user. Reads that fail yield no pins and
// writes that fail are logged and dropped.
type LocalStore struct {
	dir    string
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewLocalStore stores pins in dir, or DefaultDir when dir is empty.
func NewLocalStore(dir string, logger zerolog.Logger) *LocalStore {
	if dir == "" {
		dir = DefaultDir()
	}
	return &LocalStore{dir: dir, logger: logger}
}

// Path returns the pin file for username.
func (s *LocalStore) Path(username string) string {
	key := achievements.Slugify(strings.TrimSpace(username))
	if key == "" {
		key = "anonymous"
	}
	return filepath.Join(s.dir, "pins-"+key+".json")
}

// Pinned returns the user's pinned ids.
func (s *LocalStore) Pinned(username string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(username)
}

func (s *LocalStore) load(username string) []string {
	var f pinFile
	if err := readJSON(s.Path(username), &f); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Msg("failed to read pins")
		return []string{}
	}
	if f.IDs == nil {
		return []string{}
	}
	return f.IDs
}

// SetPinned replaces the user's pins. Duplicates are dropped and the list
// is truncated to MaxPins.
func (s *LocalStore) SetPinned(username string, ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(username, ids)
}

func (s *LocalStore) save(username string, ids []string) {
	ids = lo.Uniq(lo.Compact(ids))
	if len(ids) > MaxPins {
		ids = ids[:MaxPins]
	}
	f := pinFile{Username: username, IDs: ids, Updated: time.Now().UTC()}
	if err := writeJSON(s.Path(username), f); err != nil {
		s.logger.Warn().Err(err).Str("username", username).Int("count", len(ids)).Msg("failed to save pins")
	}
}

// Toggle pins id if it is not pinned and unpins it otherwise, returning the
// new pin list.
func (s *LocalStore) Toggle(username, id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.load(username)
	if slices.Contains(ids, id) {
		ids = lo.Without(ids, id)
	} else {
		ids = append(ids, id)
	}
	s.save(username, ids)
	return ids
}
