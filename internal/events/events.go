// Package events publishes the outcome of finished audit and sync runs.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/status"
)

// RunFinished describes a run that reached a terminal status
type RunFinished struct {
	Kind       status.RunKind   `json:"kind"`
	RunID      uuid.UUID        `json:"run_id"`
	UserID     string           `json:"user_id"`
	Status     status.RunStatus `json:"status"`
	Error      string           `json:"error,omitempty"`
	Totals     map[string]int   `json:"totals,omitempty"`
	FinishedAt time.Time        `json:"finished_at"`
}

// Publisher delivers run outcomes to interested consumers.
// Delivery is best effort; callers log failures and carry on.
type Publisher interface {
	PublishRunFinished(ctx context.Context, event RunFinished) error
	Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishRunFinished(context.Context, RunFinished) error { return nil }

func (noopPublisher) Close() {}
