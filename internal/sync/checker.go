package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

// FreshnessChecker assesses the snapshot freshness of a user
//
//go:generate mockgen -destination=mocks/mock_checker.go -package=mocks github.com/forgeo/crm-audit-server/internal/sync FreshnessChecker
type FreshnessChecker interface {
	Check(ctx context.Context, userID string) (Assessment, error)
}

type defaultChecker struct {
	runs state.RunService
	now  func() time.Time
}

// NewFreshnessChecker creates a checker reading runs from runs. A nil now uses time.Now.
func NewFreshnessChecker(runs state.RunService, now func() time.Time) FreshnessChecker {
	if now == nil {
		now = time.Now
	}
	return &defaultChecker{runs: runs, now: now}
}

func (c *defaultChecker) Check(ctx context.Context, userID string) (Assessment, error) {
	latest, err := c.runs.Latest(ctx, userID)
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to look up latest sync of user %s: %w", userID, err)
	}
	return Assess(c.now(), latest), nil
}
