package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeSynced
	outcomeFailed
)

// sweep checks every user with an active credential and syncs the stale ones
func (c *defaultCoordinator) sweep(ctx context.Context) SweepSummary {
	start := time.Now()
	users, err := c.users.ListActiveUsers(ctx)
	if err != nil {
		slog.Error("Failed to list users for auto-sync", "error", err)
		return SweepSummary{}
	}
	if len(users) == 0 {
		slog.Info("No users with an active CRM credential")
		return SweepSummary{}
	}

	var (
		mu      sync.Mutex
		summary = SweepSummary{Users: len(users)}
	)

	var g errgroup.Group
	g.SetLimit(c.settings.maxConcurrentUsers)
	for _, userID := range users {
		g.Go(func() error {
			result := c.syncUser(ctx, userID)
			mu.Lock()
			defer mu.Unlock()
			switch result {
			case outcomeSynced:
				summary.Synced++
			case outcomeFailed:
				summary.Failed++
			default:
				summary.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	slog.Info("Auto-sync sweep completed",
		"users", summary.Users,
		"synced", summary.Synced,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", time.Since(start))
	return summary
}

// syncUser runs a sync for one user when its snapshot is no longer fresh
func (c *defaultCoordinator) syncUser(ctx context.Context, userID string) outcome {
	if ctx.Err() != nil {
		return outcomeSkipped
	}

	assessment, err := c.checker.Check(ctx, userID)
	if err != nil {
		slog.Error("Failed to check snapshot freshness", "user_id", userID, "error", err)
		return outcomeFailed
	}
	if !assessment.ShouldSync {
		slog.Debug("User does not need sync", "user_id", userID, "reason", assessment.Reason)
		return outcomeSkipped
	}

	slog.Info("Starting scheduled sync", "user_id", userID, "reason", assessment.Reason)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.settings.initialInterval

	run, err := backoff.Retry(ctx,
		func() (*state.Run, error) {
			run, err := c.runner.Run(ctx, userID)
			if err != nil && !retryable(err) {
				return run, backoff.Permanent(err)
			}
			return run, err
		},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.settings.maxAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			slog.Warn("Scheduled sync failed, retrying", "user_id", userID, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		if errors.Is(err, runlock.ErrRunInProgress) {
			slog.Info("Sync already in progress, skipping", "user_id", userID)
			return outcomeSkipped
		}
		slog.Error("Scheduled sync failed", "user_id", userID, "error", err)
		return outcomeFailed
	}

	slog.Info("Scheduled sync completed",
		"user_id", userID,
		"run_id", run.ID,
		"contacts", run.Totals.Contacts,
		"companies", run.Totals.Companies,
		"deals", run.Totals.Deals)
	return outcomeSynced
}

// retryable reports whether a failed run is worth another attempt. Only transient
// CRM failures are retried; a rejected credential is not.
func retryable(err error) bool {
	var upstreamErr *crm.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	return !upstreamErr.Unauthorized()
}
