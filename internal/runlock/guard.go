package runlock

//go:generate mockgen -destination=mocks/mock_guard.go -package=mocks github.com/forgeo/crm-audit-server/internal/runlock Guard,Lease

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/forgeo/crm-audit-server/internal/status"
)

// ErrRunInProgress is returned when a run of the same kind is already active for the user
var ErrRunInProgress = errors.New("run already in progress")

// Key identifies one exclusive slot
type Key struct {
	UserID string
	Kind   status.RunKind
}

// String returns the canonical textual form used by the backends
func (k Key) String() string {
	return fmt.Sprintf("crm-audit:%s:%s", k.Kind, k.UserID)
}

// hash64 folds the key into the int64 space of postgres advisory locks
func (k Key) hash64() int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.String()))
	return int64(h.Sum64())
}

// Guard grants exclusive leases
type Guard interface {
	// Acquire returns ErrRunInProgress when the key is already held
	Acquire(ctx context.Context, key Key) (Lease, error)
}

// Lease is a held key. Release is idempotent.
type Lease interface {
	Key() Key
	Release(ctx context.Context) error
}
