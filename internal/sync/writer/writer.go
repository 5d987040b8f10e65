// Package writer stores CRM snapshots of a sync run
package writer

import (
	"context"

	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/crm"
)

//go:generate mockgen -destination=mocks/mock_snapshot_writer.go -package=mocks github.com/forgeo/crm-audit-server/internal/sync/writer SnapshotWriter

// SnapshotWriter persists fetched objects under a sync run
type SnapshotWriter interface {
	// Store upserts the objects of one type and returns the number of rows written.
	// An object appearing twice keeps its last occurrence.
	Store(ctx context.Context, syncID uuid.UUID, objectType crm.ObjectType, objects []crm.Object) (int64, error)
}
