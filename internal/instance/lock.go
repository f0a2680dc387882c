// Package instance keeps a second engine from serving the same data dir.
package instance

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrRunning = errors.New("another engine is already using this data dir")

const lockName = "engine.lock"

type Lock struct {
	fl *flock.Flock
}

// Acquire takes the data dir lock without blocking.
func Acquire(dataDir string) (*Lock, error) {
	fl := flock.New(filepath.Join(dataDir, lockName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", fl.Path(), ErrRunning)
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Path() string { return l.fl.Path() }

func (l *Lock) Release() error { return l.fl.Unlock() }
