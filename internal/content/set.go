package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrUnknownGame is returned by Set.Get for game ids with no dictionary.
var ErrUnknownGame = errors.New("unknown game")

// Set holds every loaded dictionary keyed by game id.
type Set struct {
	byID  map[string]*Dictionary
	order []string
}

// LoadEmbedded loads the dictionaries compiled into the binary.
func LoadEmbedded() (*Set, error) {
	return LoadFS(embedded, "data")
}

// LoadDir loads every *.yaml file in dir.
func LoadDir(dir string) (*Set, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every *.yaml file in dir of fsys in file-name order. The
// first invalid file aborts the load.
func LoadFS(fsys fs.FS, dir string) (*Set, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no dictionaries in %s", ErrInvalidDictionary, dir)
	}
	sort.Strings(names)

	s := &Set{byID: make(map[string]*Dictionary, len(names))}
	for _, name := range names {
		d, err := loadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byID[d.GameID]; dup {
			return nil, fmt.Errorf("%w: duplicate game %q in %s", ErrInvalidDictionary, d.GameID, name)
		}
		s.byID[d.GameID] = d
		s.order = append(s.order, d.GameID)
	}
	return s, nil
}

func loadFile(fsys fs.FS, name string) (*Dictionary, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	return d, nil
}

// NewSet builds a Set from already-loaded dictionaries.
func NewSet(dicts ...*Dictionary) *Set {
	s := &Set{byID: make(map[string]*Dictionary, len(dicts))}
	for _, d := range dicts {
		if _, dup := s.byID[d.GameID]; !dup {
			s.order = append(s.order, d.GameID)
		}
		s.byID[d.GameID] = d
	}
	return s
}

// Get returns the dictionary for gameID.
func (s *Set) Get(gameID string) (*Dictionary, error) {
	d, ok := s.byID[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, gameID)
	}
	return d, nil
}

// GameIDs returns the loaded game ids in load order.
func (s *Set) GameIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
