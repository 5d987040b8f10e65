package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/events"
	"github.com/forgeo/crm-audit-server/internal/otel"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/status"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
	"github.com/forgeo/crm-audit-server/internal/sync/writer"
	"github.com/forgeo/crm-audit-server/internal/telemetry"
)

// Runner executes sync runs
//
//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks github.com/forgeo/crm-audit-server/internal/sync Runner
type Runner interface {
	// Begin claims the user's sync guard, checks the credential and creates the
	// in_progress run. The guard stays held until Execute returns.
	Begin(ctx context.Context, userID string) (*state.Run, error)
	// Execute refreshes the snapshots of a run returned by Begin
	Execute(ctx context.Context, run *state.Run) (*state.Run, error)
	// Run is Begin followed by Execute
	Run(ctx context.Context, userID string) (*state.Run, error)
}

// RunnerOption configures a Runner
type RunnerOption func(*defaultRunner)

// WithRunnerCatalog sets the catalog whose fields are added to the snapshot properties
func WithRunnerCatalog(catalog *audit.Catalog) RunnerOption {
	return func(r *defaultRunner) {
		r.catalog = catalog
	}
}

// WithRunnerClock sets the time source for completion timestamps
func WithRunnerClock(now func() time.Time) RunnerOption {
	return func(r *defaultRunner) {
		r.now = now
	}
}

// WithRunnerPublisher sets where run outcomes are published
func WithRunnerPublisher(pub events.Publisher) RunnerOption {
	return func(r *defaultRunner) {
		r.publisher = pub
	}
}

// WithSyncMetrics sets the sync metrics recorder
func WithSyncMetrics(m *telemetry.SyncMetrics) RunnerOption {
	return func(r *defaultRunner) {
		r.metrics = m
	}
}

// WithRunnerTracer sets the tracer for run spans
func WithRunnerTracer(tracer trace.Tracer) RunnerOption {
	return func(r *defaultRunner) {
		r.tracer = tracer
	}
}

type pendingSync struct {
	lease   runlock.Lease
	fetcher crm.Fetcher
}

type defaultRunner struct {
	runs      state.RunService
	writer    writer.SnapshotWriter
	fetchers  crm.FetcherFactory
	guard     runlock.Guard
	catalog   *audit.Catalog
	now       func() time.Time
	publisher events.Publisher
	metrics   *telemetry.SyncMetrics
	tracer    trace.Tracer

	mu      gosync.Mutex
	pending map[uuid.UUID]pendingSync
}

// NewRunner creates a sync Runner
func NewRunner(
	runs state.RunService,
	snapshots writer.SnapshotWriter,
	fetchers crm.FetcherFactory,
	guard runlock.Guard,
	opts ...RunnerOption,
) Runner {
	r := &defaultRunner{
		runs:      runs,
		writer:    snapshots,
		fetchers:  fetchers,
		guard:     guard,
		catalog:   audit.DefaultCatalog(),
		now:       time.Now,
		publisher: events.NewNoopPublisher(),
		pending:   make(map[uuid.UUID]pendingSync),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *defaultRunner) Run(ctx context.Context, userID string) (*state.Run, error) {
	run, err := r.Begin(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, run)
}

func (r *defaultRunner) Begin(ctx context.Context, userID string) (*state.Run, error) {
	lease, err := r.guard.Acquire(ctx, runlock.Key{UserID: userID, Kind: status.RunKindSync})
	if err != nil {
		return nil, &status.RunError{Kind: status.RunKindSync, Err: err}
	}

	fetcher, err := r.fetchers.ForUser(ctx, userID)
	if err != nil {
		r.release(ctx, lease)
		return nil, &status.RunError{Kind: status.RunKindSync, Err: err}
	}

	run, err := r.runs.Create(ctx, userID)
	if err != nil {
		r.release(ctx, lease)
		return nil, &status.RunError{Kind: status.RunKindSync, Err: err}
	}

	r.mu.Lock()
	r.pending[run.ID] = pendingSync{lease: lease, fetcher: fetcher}
	r.mu.Unlock()

	slog.Info("Sync run created", "run_id", run.ID, "user_id", userID)
	return run, nil
}

func (r *defaultRunner) Execute(ctx context.Context, run *state.Run) (*state.Run, error) {
	if run == nil {
		return nil, &status.RunError{Kind: status.RunKindSync, Err: errors.New("run is required")}
	}

	r.mu.Lock()
	p, ok := r.pending[run.ID]
	delete(r.pending, run.ID)
	r.mu.Unlock()
	if !ok {
		return run, &status.RunError{
			Kind:  status.RunKindSync,
			RunID: run.ID,
			Err:   fmt.Errorf("sync run %s was not started by this process", run.ID),
		}
	}
	defer r.release(ctx, p.lease)

	ctx, span := otel.StartSpan(ctx, r.tracer, "sync.Execute",
		trace.WithAttributes(
			otel.AttrRunID.String(run.ID.String()),
			otel.AttrUserID.String(run.UserID),
		))
	defer span.End()

	start := time.Now()
	err := r.execute(ctx, run, p.fetcher)
	r.metrics.RecordSyncDuration(ctx, time.Since(start), err == nil)

	// Persist the outcome even if the caller went away
	finishCtx := context.WithoutCancel(ctx)
	if err != nil {
		otel.RecordError(span, err)
		if failErr := r.runs.Fail(finishCtx, run.ID, err.Error()); failErr != nil {
			slog.Error("Failed to mark sync run failed", "run_id", run.ID, "error", failErr)
		}
	}

	finished, getErr := r.runs.Get(finishCtx, run.ID)
	if getErr != nil {
		slog.Warn("Failed to reload sync run", "run_id", run.ID, "error", getErr)
		finished = run
		if err != nil {
			finished.Status = status.RunStatusFailed
			finished.ErrorMessage = err.Error()
		}
	}

	r.publish(finishCtx, finished)

	if err != nil {
		slog.Error("Sync run failed", "run_id", run.ID, "user_id", run.UserID, "error", err)
		return finished, &status.RunError{Kind: status.RunKindSync, RunID: run.ID, Err: err}
	}

	slog.Info("Sync run completed",
		"run_id", run.ID,
		"user_id", run.UserID,
		"contacts", finished.Totals.Contacts,
		"companies", finished.Totals.Companies,
		"deals", finished.Totals.Deals,
		"duration", time.Since(start))
	return finished, nil
}

func (r *defaultRunner) execute(ctx context.Context, run *state.Run, fetcher crm.Fetcher) error {
	for _, objectType := range crm.ObjectTypes {
		if err := r.syncObjectType(ctx, run.ID, objectType, fetcher); err != nil {
			return err
		}
	}

	// Counted from storage so concurrent writers are reflected
	totals, err := r.runs.CountSnapshots(ctx, run.ID)
	if err != nil {
		return err
	}
	return r.runs.Complete(ctx, run.ID, totals, r.now().UTC())
}

func (r *defaultRunner) syncObjectType(
	ctx context.Context,
	runID uuid.UUID,
	objectType crm.ObjectType,
	fetcher crm.Fetcher,
) error {
	ctx, span := otel.StartSpan(ctx, r.tracer, "sync.ObjectType",
		trace.WithAttributes(otel.AttrObjectType.String(string(objectType))))
	defer span.End()

	objects, err := fetcher.FetchAll(ctx, objectType, SnapshotProperties(objectType, r.catalog))
	if err != nil {
		otel.RecordError(span, err)
		return err
	}

	written, err := r.writer.Store(ctx, runID, objectType, objects)
	if err != nil {
		otel.RecordError(span, err)
		return err
	}

	r.metrics.RecordObjectsSynced(ctx, string(objectType), written)
	slog.Debug("Stored snapshots",
		"run_id", runID,
		"object_type", objectType,
		"fetched", len(objects),
		"written", written)
	return nil
}

func (r *defaultRunner) publish(ctx context.Context, run *state.Run) {
	finishedAt := r.now().UTC()
	if run.CompletedAt != nil {
		finishedAt = *run.CompletedAt
	}
	err := r.publisher.PublishRunFinished(ctx, events.RunFinished{
		Kind:       status.RunKindSync,
		RunID:      run.ID,
		UserID:     run.UserID,
		Status:     run.Status,
		Error:      run.ErrorMessage,
		Totals:     run.Totals.Map(),
		FinishedAt: finishedAt,
	})
	if err != nil {
		slog.Warn("Failed to publish sync run event", "run_id", run.ID, "error", err)
	}
}

func (*defaultRunner) release(ctx context.Context, lease runlock.Lease) {
	if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("Failed to release run guard", "key", lease.Key().String(), "error", err)
	}
}
