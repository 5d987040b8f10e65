package runlock

import (
	"context"
	"sync"
)

type memoryGuard struct {
	mu   sync.Mutex
	held map[Key]struct{}
}

// NewMemoryGuard creates an in-process guard
func NewMemoryGuard() Guard {
	return &memoryGuard{held: make(map[Key]struct{})}
}

func (g *memoryGuard) Acquire(_ context.Context, key Key) (Lease, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.held[key]; ok {
		return nil, ErrRunInProgress
	}
	g.held[key] = struct{}{}
	return &memoryLease{guard: g, key: key}, nil
}

type memoryLease struct {
	guard *memoryGuard
	key   Key
	once  sync.Once
}

func (l *memoryLease) Key() Key { return l.key }

func (l *memoryLease) Release(context.Context) error {
	l.once.Do(func() {
		l.guard.mu.Lock()
		delete(l.guard.held, l.key)
		l.guard.mu.Unlock()
	})
	return nil
}
