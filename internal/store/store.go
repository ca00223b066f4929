package store

import (
	"os"
)

// Store is the local state directory (config dir): persisted view, session, sqlite file.
type Store struct {
	Dir string
}

// Open returns a Store rooted at the configured config dir.
func Open() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}
