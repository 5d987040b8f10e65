package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/events"
	"github.com/forgeo/crm-audit-server/internal/otel"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/status"
	"github.com/forgeo/crm-audit-server/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_orchestrator.go -package=mocks github.com/forgeo/crm-audit-server/internal/audit Orchestrator

// Orchestrator runs audits for a user
type Orchestrator interface {
	// Begin claims the user's audit guard, checks the credential and creates the
	// in_progress run. The guard stays held until Execute returns.
	Begin(ctx context.Context, userID string, meta Metadata) (*Run, error)
	// Execute audits contacts, companies and deals for a run returned by Begin
	Execute(ctx context.Context, run *Run) (*Run, error)
	// Run is Begin followed by Execute
	Run(ctx context.Context, userID string, meta Metadata) (*Run, error)
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*defaultOrchestrator)

// WithCatalog replaces the default catalog
func WithCatalog(catalog *Catalog) OrchestratorOption {
	return func(o *defaultOrchestrator) {
		o.catalog = catalog
	}
}

// WithClock sets the time source used for staleness checks
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *defaultOrchestrator) {
		o.now = now
	}
}

// WithPublisher sets where run outcomes are published
func WithPublisher(pub events.Publisher) OrchestratorOption {
	return func(o *defaultOrchestrator) {
		o.publisher = pub
	}
}

// WithMetrics sets the audit metrics recorder
func WithMetrics(m *telemetry.AuditMetrics) OrchestratorOption {
	return func(o *defaultOrchestrator) {
		o.metrics = m
	}
}

// WithTracer sets the tracer for run spans
func WithTracer(tracer trace.Tracer) OrchestratorOption {
	return func(o *defaultOrchestrator) {
		o.tracer = tracer
	}
}

type pendingRun struct {
	lease   runlock.Lease
	fetcher crm.Fetcher
}

type defaultOrchestrator struct {
	store     Store
	fetchers  crm.FetcherFactory
	guard     runlock.Guard
	catalog   *Catalog
	now       func() time.Time
	publisher events.Publisher
	metrics   *telemetry.AuditMetrics
	tracer    trace.Tracer

	mu      sync.Mutex
	pending map[uuid.UUID]pendingRun
}

// NewOrchestrator creates an audit Orchestrator
func NewOrchestrator(
	store Store,
	fetchers crm.FetcherFactory,
	guard runlock.Guard,
	opts ...OrchestratorOption,
) Orchestrator {
	o := &defaultOrchestrator{
		store:     store,
		fetchers:  fetchers,
		guard:     guard,
		catalog:   DefaultCatalog(),
		now:       time.Now,
		publisher: events.NewNoopPublisher(),
		pending:   make(map[uuid.UUID]pendingRun),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *defaultOrchestrator) Run(ctx context.Context, userID string, meta Metadata) (*Run, error) {
	run, err := o.Begin(ctx, userID, meta)
	if err != nil {
		return nil, err
	}
	return o.Execute(ctx, run)
}

func (o *defaultOrchestrator) Begin(ctx context.Context, userID string, meta Metadata) (*Run, error) {
	lease, err := o.guard.Acquire(ctx, runlock.Key{UserID: userID, Kind: status.RunKindAudit})
	if err != nil {
		return nil, &status.RunError{Kind: status.RunKindAudit, Err: err}
	}

	fetcher, err := o.fetchers.ForUser(ctx, userID)
	if err != nil {
		o.release(ctx, lease)
		return nil, &status.RunError{Kind: status.RunKindAudit, Err: err}
	}

	run, err := o.store.CreateRun(ctx, userID, meta)
	if err != nil {
		o.release(ctx, lease)
		return nil, &status.RunError{Kind: status.RunKindAudit, Err: err}
	}

	o.mu.Lock()
	o.pending[run.ID] = pendingRun{lease: lease, fetcher: fetcher}
	o.mu.Unlock()

	slog.Info("Audit run created", "run_id", run.ID, "user_id", userID)
	return run, nil
}

func (o *defaultOrchestrator) Execute(ctx context.Context, run *Run) (*Run, error) {
	if run == nil {
		return nil, &status.RunError{Kind: status.RunKindAudit, Err: errors.New("run is required")}
	}

	o.mu.Lock()
	p, ok := o.pending[run.ID]
	delete(o.pending, run.ID)
	o.mu.Unlock()
	if !ok {
		return run, &status.RunError{
			Kind:  status.RunKindAudit,
			RunID: run.ID,
			Err:   fmt.Errorf("audit run %s was not started by this process", run.ID),
		}
	}
	defer o.release(ctx, p.lease)

	ctx, span := otel.StartSpan(ctx, o.tracer, "audit.Execute",
		trace.WithAttributes(
			otel.AttrRunID.String(run.ID.String()),
			otel.AttrUserID.String(run.UserID),
		))
	defer span.End()

	start := time.Now()
	err := o.execute(ctx, run, p.fetcher)
	o.metrics.RecordAuditDuration(ctx, time.Since(start), err == nil)

	finalStatus, errMsg := status.RunStatusCompleted, ""
	if err != nil {
		otel.RecordError(span, err)
		finalStatus, errMsg = status.RunStatusFailed, err.Error()
	}

	// Persist the outcome even if the caller went away
	finishCtx := context.WithoutCancel(ctx)
	if finishErr := o.store.Finish(finishCtx, run.ID, finalStatus, errMsg); finishErr != nil {
		slog.Error("Failed to finish audit run", "run_id", run.ID, "status", finalStatus, "error", finishErr)
		if err == nil {
			err = finishErr
		}
	}

	finished, getErr := o.store.GetRun(finishCtx, run.ID)
	if getErr != nil {
		slog.Warn("Failed to reload audit run", "run_id", run.ID, "error", getErr)
		finished = run
		finished.Status = finalStatus
		finished.ErrorMessage = errMsg
	}

	o.publish(finishCtx, finished)

	if err != nil {
		slog.Error("Audit run failed", "run_id", run.ID, "user_id", run.UserID, "error", err)
		return finished, &status.RunError{Kind: status.RunKindAudit, RunID: run.ID, Err: err}
	}

	slog.Info("Audit run completed",
		"run_id", run.ID,
		"user_id", run.UserID,
		"contacts", finished.Totals.Contacts,
		"companies", finished.Totals.Companies,
		"deals", finished.Totals.Deals,
		"duration", time.Since(start))
	return finished, nil
}

func (o *defaultOrchestrator) execute(ctx context.Context, run *Run, fetcher crm.Fetcher) error {
	var totals Totals
	for _, cat := range Categories {
		n, err := o.auditCategory(ctx, run.ID, cat, fetcher)
		if err != nil {
			return err
		}
		totals.Set(cat, n)
		if err := o.store.UpdateTotals(ctx, run.ID, totals); err != nil {
			return err
		}
	}
	return nil
}

func (o *defaultOrchestrator) auditCategory(
	ctx context.Context,
	runID uuid.UUID,
	cat Category,
	fetcher crm.Fetcher,
) (int, error) {
	ctx, span := otel.StartSpan(ctx, o.tracer, "audit.Category",
		trace.WithAttributes(otel.AttrCategory.String(string(cat))))
	defer span.End()

	objects, err := fetcher.FetchAll(ctx, cat.ObjectType(), o.catalog.Fields(cat))
	if err != nil {
		otel.RecordError(span, err)
		return 0, err
	}

	scored := Evaluate(o.now(), objects, o.catalog.Criteria(cat))
	for _, s := range scored {
		if _, err := o.store.SaveCriterion(ctx, runID, s); err != nil {
			otel.RecordError(span, err)
			return 0, err
		}
	}

	score := ScoreCriteria(scored)
	o.metrics.RecordCategoryScore(ctx, string(cat), score)
	slog.Debug("Audited category",
		"run_id", runID,
		"category", cat,
		"objects", len(objects),
		"score", score)

	return len(objects), nil
}

func (o *defaultOrchestrator) publish(ctx context.Context, run *Run) {
	err := o.publisher.PublishRunFinished(ctx, events.RunFinished{
		Kind:       status.RunKindAudit,
		RunID:      run.ID,
		UserID:     run.UserID,
		Status:     run.Status,
		Error:      run.ErrorMessage,
		Totals:     run.Totals.Map(),
		FinishedAt: run.UpdatedAt,
	})
	if err != nil {
		slog.Warn("Failed to publish audit run event", "run_id", run.ID, "error", err)
	}
}

func (*defaultOrchestrator) release(ctx context.Context, lease runlock.Lease) {
	if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("Failed to release run guard", "key", lease.Key().String(), "error", err)
	}
}
