// Package state persists sync runs and answers freshness lookups.
package state

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/status"
)

// Totals counts the snapshot rows written by a sync run
type Totals struct {
	Contacts  int `json:"contacts"`
	Companies int `json:"companies"`
	Deals     int `json:"deals"`
}

// Map returns the totals keyed by object type
func (t Totals) Map() map[string]int {
	return map[string]int{
		"contacts":  t.Contacts,
		"companies": t.Companies,
		"deals":     t.Deals,
	}
}

// Run is a persisted sync run
type Run struct {
	ID           uuid.UUID        `json:"id"`
	UserID       string           `json:"user_id"`
	Status       status.RunStatus `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	// CompletedAt is set once the run completes
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Totals      Totals     `json:"totals"`
}

// RunService manages sync run rows.
//
//go:generate mockgen -destination=mocks/mock_run_service.go -package=mocks github.com/forgeo/crm-audit-server/internal/sync/state RunService
type RunService interface {
	// Create inserts an in_progress run for the user
	Create(ctx context.Context, userID string) (*Run, error)
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	// Latest returns the most recently completed run of the user, or nil when the user
	// never completed one.
	Latest(ctx context.Context, userID string) (*Run, error)
	// List returns the most recent runs of the user, newest first
	List(ctx context.Context, userID string, limit int) ([]*Run, error)
	// CountSnapshots counts the snapshot rows stored under the run
	CountSnapshots(ctx context.Context, id uuid.UUID) (Totals, error)
	// Complete marks an in_progress run completed with the given totals
	Complete(ctx context.Context, id uuid.UUID, totals Totals, completedAt time.Time) error
	// Fail marks an in_progress run failed
	Fail(ctx context.Context, id uuid.UUID, errMsg string) error
}
