package runlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

type fileGuard struct {
	dir string
}

// NewFileGuard creates a guard that keeps one lock file per key in dir
func NewFileGuard(dir string) (Guard, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	return &fileGuard{dir: dir}, nil
}

func (g *fileGuard) Acquire(_ context.Context, key Key) (Lease, error) {
	lock := flock.New(g.path(key))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, ErrRunInProgress
	}
	return &fileLease{lock: lock, key: key}, nil
}

func (g *fileGuard) path(key Key) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key.String())
	return filepath.Join(g.dir, name+".lock")
}

type fileLease struct {
	lock *flock.Flock
	key  Key
	once sync.Once
	err  error
}

func (l *fileLease) Key() Key { return l.key }

func (l *fileLease) Release(context.Context) error {
	l.once.Do(func() {
		if err := l.lock.Unlock(); err != nil {
			l.err = fmt.Errorf("failed to unlock %s: %w", l.lock.Path(), err)
		}
	})
	return l.err
}
