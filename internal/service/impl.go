package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"

	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/audit/export"
	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/sync/coordinator"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

// ErrShuttingDown is returned when a run is requested after Shutdown was called
var ErrShuttingDown = errors.New("service is shutting down")

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServiceOption configures the service
type ServiceOption func(*defaultService)

// WithReadinessCheck sets the store pinged by CheckReadiness
func WithReadinessCheck(p Pinger) ServiceOption {
	return func(s *defaultService) {
		s.pinger = p
	}
}

// WithCoordinator sets the auto-sync coordinator
func WithCoordinator(c coordinator.Coordinator) ServiceOption {
	return func(s *defaultService) {
		s.coordinator = c
	}
}

// WithServiceCatalog sets the catalog used to decorate results
func WithServiceCatalog(catalog *audit.Catalog) ServiceOption {
	return func(s *defaultService) {
		s.catalog = catalog
	}
}

type defaultService struct {
	audits      audit.Orchestrator
	auditStore  audit.Store
	syncs       pkgsync.Runner
	syncRuns    state.RunService
	checker     pkgsync.FreshnessChecker
	coordinator coordinator.Coordinator
	catalog     *audit.Catalog
	pinger      Pinger

	mu      gosync.Mutex
	closed  bool
	running gosync.WaitGroup
}

// New creates the service
func New(
	audits audit.Orchestrator,
	auditStore audit.Store,
	syncs pkgsync.Runner,
	syncRuns state.RunService,
	checker pkgsync.FreshnessChecker,
	opts ...ServiceOption,
) Service {
	s := &defaultService{
		audits:     audits,
		auditStore: auditStore,
		syncs:      syncs,
		syncRuns:   syncRuns,
		checker:    checker,
		catalog:    audit.DefaultCatalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *defaultService) CheckReadiness(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	if err := s.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	return nil
}

func (s *defaultService) StartAudit(ctx context.Context, userID string, meta audit.Metadata) (*audit.Run, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}

	run, err := s.audits.Begin(ctx, userID, meta)
	if err != nil {
		s.running.Done()
		return nil, err
	}

	// A snapshot is handed to the background run so the caller's copy stays untouched
	started := *run
	go func() {
		defer s.running.Done()
		// Errors are recorded on the run row and logged by the orchestrator
		_, _ = s.audits.Execute(context.WithoutCancel(ctx), run)
	}()
	return &started, nil
}

func (s *defaultService) ListAudits(
	ctx context.Context, userID string, opts ...Option[ListOptions],
) ([]*audit.Run, error) {
	o, err := listOptions(opts)
	if err != nil {
		return nil, err
	}
	return s.auditStore.ListRuns(ctx, userID, o.Limit)
}

func (s *defaultService) GetAudit(ctx context.Context, id uuid.UUID) (*AuditSummary, error) {
	run, err := s.auditStore.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	results, err := s.auditStore.ListResults(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AuditSummary{Run: run, Scores: audit.ComputeScores(results)}, nil
}

func (s *defaultService) DeleteAudit(ctx context.Context, id uuid.UUID) error {
	if err := s.auditStore.DeleteRun(ctx, id); err != nil {
		return err
	}
	slog.Info("Audit deleted", "run_id", id)
	return nil
}

func (s *defaultService) GetAuditResults(ctx context.Context, id uuid.UUID) ([]audit.DecoratedResult, error) {
	if _, err := s.auditStore.GetRun(ctx, id); err != nil {
		return nil, err
	}
	results, err := s.auditStore.ListResults(ctx, id)
	if err != nil {
		return nil, err
	}
	return audit.Decorate(s.catalog, results), nil
}

func (s *defaultService) GetAuditScores(ctx context.Context, id uuid.UUID) (*audit.Scores, error) {
	if _, err := s.auditStore.GetRun(ctx, id); err != nil {
		return nil, err
	}
	results, err := s.auditStore.ListResults(ctx, id)
	if err != nil {
		return nil, err
	}
	scores := audit.ComputeScores(results)
	return &scores, nil
}

func (s *defaultService) GetIssueDetails(
	ctx context.Context,
	id uuid.UUID,
	cat audit.Category,
	criterion string,
	opts ...Option[DetailOptions],
) (*audit.DetailPage, error) {
	o, err := detailOptions(opts)
	if err != nil {
		return nil, err
	}
	if _, ok := s.catalog.Lookup(cat, criterion); !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownCriterion, cat, criterion)
	}
	if _, err := s.auditStore.GetRun(ctx, id); err != nil {
		return nil, err
	}

	total, err := s.auditStore.CountDetails(ctx, id, cat, criterion)
	if err != nil {
		return nil, err
	}
	items, err := s.auditStore.ListDetails(ctx, id, cat, criterion, o.Limit, (o.Page-1)*o.Limit)
	if err != nil {
		return nil, err
	}

	page := audit.NewDetailPage(s.catalog, cat, criterion, items, o.Page, o.Limit, total)
	return &page, nil
}

func (s *defaultService) ExportAudit(ctx context.Context, id uuid.UUID) (*Export, error) {
	run, err := s.auditStore.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	results, err := s.auditStore.ListResults(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := export.Workbook(run, audit.Decorate(s.catalog, results), audit.ComputeScores(results))
	if err != nil {
		return nil, err
	}
	return &Export{Filename: export.Filename(run), ContentType: export.ContentType, Data: data}, nil
}

func (s *defaultService) StartSync(ctx context.Context, userID string) (*state.Run, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}

	run, err := s.syncs.Begin(ctx, userID)
	if err != nil {
		s.running.Done()
		return nil, err
	}

	started := *run
	go func() {
		defer s.running.Done()
		_, _ = s.syncs.Execute(context.WithoutCancel(ctx), run)
	}()
	return &started, nil
}

func (s *defaultService) LatestSync(ctx context.Context, userID string) (*state.Run, error) {
	run, err := s.syncRuns.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrNoCompletedSync
	}
	return run, nil
}

func (s *defaultService) ListSyncs(
	ctx context.Context, userID string, opts ...Option[ListOptions],
) ([]*state.Run, error) {
	o, err := listOptions(opts)
	if err != nil {
		return nil, err
	}
	return s.syncRuns.List(ctx, userID, o.Limit)
}

func (s *defaultService) Freshness(ctx context.Context, userID string) (*pkgsync.Assessment, error) {
	a, err := s.checker.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *defaultService) Login(ctx context.Context, userID string) (*LoginResult, error) {
	a, err := s.checker.Check(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Freshness: a}
	if !pkgsync.ShouldSyncOnLogin(a) {
		return result, nil
	}

	run, err := s.StartSync(ctx, userID)
	switch {
	case err == nil:
		result.SyncStarted = true
		result.Sync = run
		slog.Info("Login started a sync", "user_id", userID, "reason", a.Reason, "run_id", run.ID)
	case errors.Is(err, runlock.ErrRunInProgress), crm.IsAuthError(err):
		// The login itself succeeds; the caller learns why no sync was started
		result.SyncError = err.Error()
		slog.Info("Login did not start a sync", "user_id", userID, "reason", a.Reason, "error", err)
	default:
		return nil, err
	}
	return result, nil
}

func (s *defaultService) SchedulerStatus() (*coordinator.Status, error) {
	if s.coordinator == nil {
		return nil, ErrSchedulerUnavailable
	}
	st := s.coordinator.Status()
	return &st, nil
}

func (s *defaultService) TriggerScheduler() (bool, error) {
	if s.coordinator == nil {
		return false, ErrSchedulerUnavailable
	}
	return s.coordinator.Trigger(), nil
}

func (s *defaultService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background runs still active: %w", ctx.Err())
	}
}

// acquire registers a background run. The caller must call running.Done.
func (s *defaultService) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrShuttingDown
	}
	s.running.Add(1)
	return nil
}
