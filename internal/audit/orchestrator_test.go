package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/forgeo/crm-audit-server/internal/audit"
	auditmocks "github.com/forgeo/crm-audit-server/internal/audit/mocks"
	"github.com/forgeo/crm-audit-server/internal/crm"
	crmmocks "github.com/forgeo/crm-audit-server/internal/crm/mocks"
	"github.com/forgeo/crm-audit-server/internal/events"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/status"
	"github.com/forgeo/crm-audit-server/internal/tokens"
)

type recordingPublisher struct {
	events []events.RunFinished
}

func (p *recordingPublisher) PublishRunFinished(_ context.Context, e events.RunFinished) error {
	p.events = append(p.events, e)
	return nil
}

func (*recordingPublisher) Close() {}

func strPtr(s string) *string { return &s }

type fixture struct {
	store    *auditmocks.MockStore
	factory  *crmmocks.MockFetcherFactory
	fetcher  *crmmocks.MockFetcher
	guard    runlock.Guard
	pub      *recordingPublisher
	orch     audit.Orchestrator
	now      time.Time
	userID   string
	metadata audit.Metadata
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		store:    auditmocks.NewMockStore(ctrl),
		factory:  crmmocks.NewMockFetcherFactory(ctrl),
		fetcher:  crmmocks.NewMockFetcher(ctrl),
		guard:    runlock.NewMemoryGuard(),
		pub:      &recordingPublisher{},
		now:      time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		userID:   "alice",
		metadata: audit.Metadata{Title: "Weekly"},
	}
	f.orch = audit.NewOrchestrator(f.store, f.factory, f.guard,
		audit.WithClock(func() time.Time { return f.now }),
		audit.WithPublisher(f.pub))
	return f
}

func (f *fixture) expectBegin(runID uuid.UUID) *audit.Run {
	run := &audit.Run{ID: runID, UserID: f.userID, Metadata: f.metadata, Status: status.RunStatusInProgress}
	f.factory.EXPECT().ForUser(gomock.Any(), f.userID).Return(f.fetcher, nil)
	f.store.EXPECT().CreateRun(gomock.Any(), f.userID, f.metadata).Return(run, nil)
	return run
}

func TestOrchestrator_Run_Completes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	f.expectBegin(runID)
	catalog := audit.DefaultCatalog()

	contacts := []crm.Object{
		{ID: "c1", Properties: crm.Properties{"firstname": strPtr("Ada"), "email": strPtr("ada@example.com")}},
		{ID: "c2", Properties: crm.Properties{}},
	}
	companies := []crm.Object{{ID: "co1", Properties: crm.Properties{"website": strPtr("acme.io")}}}

	gomock.InOrder(
		f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeContacts, catalog.Fields(audit.CategoryContact)).
			Return(contacts, nil),
		f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeCompanies, catalog.Fields(audit.CategoryCompany)).
			Return(companies, nil),
		f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeDeals, catalog.Fields(audit.CategoryDeal)).
			Return(nil, nil),
	)

	var saved []audit.ScoredCriterion
	f.store.EXPECT().SaveCriterion(gomock.Any(), runID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, s audit.ScoredCriterion) (*audit.Result, error) {
			saved = append(saved, s)
			return &audit.Result{ID: uuid.New()}, nil
		}).Times(21)

	gomock.InOrder(
		f.store.EXPECT().UpdateTotals(gomock.Any(), runID, audit.Totals{Contacts: 2}).Return(nil),
		f.store.EXPECT().UpdateTotals(gomock.Any(), runID, audit.Totals{Contacts: 2, Companies: 1}).Return(nil),
		f.store.EXPECT().UpdateTotals(gomock.Any(), runID, audit.Totals{Contacts: 2, Companies: 1}).Return(nil),
	)
	f.store.EXPECT().Finish(gomock.Any(), runID, status.RunStatusCompleted, "").Return(nil)
	f.store.EXPECT().GetRun(gomock.Any(), runID).Return(&audit.Run{
		ID: runID, UserID: f.userID, Status: status.RunStatusCompleted,
		Totals: audit.Totals{Contacts: 2, Companies: 1},
	}, nil)

	run, err := f.orch.Run(context.Background(), f.userID, f.metadata)
	require.NoError(t, err)
	assert.Equal(t, status.RunStatusCompleted, run.Status)

	require.Len(t, saved, 21)
	assert.Equal(t, "missing_firstname", saved[0].Criterion.Key)
	assert.Equal(t, 1, saved[0].EmptyCount)
	assert.Equal(t, 2, saved[0].TotalCount)
	assert.Equal(t, "missing_website", saved[10].Criterion.Key)
	assert.Zero(t, saved[10].EmptyCount)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, status.RunKindAudit, f.pub.events[0].Kind)
	assert.Equal(t, status.RunStatusCompleted, f.pub.events[0].Status)

	// Guard released: a new audit for the same user can begin
	lease, err := f.guard.Acquire(context.Background(), runlock.Key{UserID: f.userID, Kind: status.RunKindAudit})
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
}

func TestOrchestrator_Run_UpstreamFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	f.expectBegin(runID)

	upstream := &crm.UpstreamError{ObjectType: crm.ObjectTypeCompanies, StatusCode: 500, Err: errors.New("boom")}
	gomock.InOrder(
		f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeContacts, gomock.Any()).Return(nil, nil),
		f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeCompanies, gomock.Any()).Return(nil, upstream),
	)
	f.store.EXPECT().SaveCriterion(gomock.Any(), runID, gomock.Any()).Return(&audit.Result{}, nil).Times(10)
	f.store.EXPECT().UpdateTotals(gomock.Any(), runID, audit.Totals{}).Return(nil)
	f.store.EXPECT().Finish(gomock.Any(), runID, status.RunStatusFailed, upstream.Error()).Return(nil)
	f.store.EXPECT().GetRun(gomock.Any(), runID).Return(&audit.Run{
		ID: runID, UserID: f.userID, Status: status.RunStatusFailed, ErrorMessage: upstream.Error(),
	}, nil)

	run, err := f.orch.Run(context.Background(), f.userID, f.metadata)
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, status.RunStatusFailed, run.Status)

	var runErr *status.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, runID, runErr.RunID)
	assert.True(t, crm.IsUpstreamError(err))

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, upstream.Error(), f.pub.events[0].Error)
}

func TestOrchestrator_Begin_NoCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.factory.EXPECT().ForUser(gomock.Any(), f.userID).
		Return(nil, &crm.AuthError{UserID: f.userID, Err: tokens.ErrNoActiveToken})

	run, err := f.orch.Begin(context.Background(), f.userID, f.metadata)
	assert.Nil(t, run)
	assert.True(t, crm.IsAuthError(err))
	assert.ErrorIs(t, err, tokens.ErrNoActiveToken)

	// The guard was released on failure
	lease, err := f.guard.Acquire(context.Background(), runlock.Key{UserID: f.userID, Kind: status.RunKindAudit})
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
}

func TestOrchestrator_Begin_Conflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectBegin(uuid.New())

	run, err := f.orch.Begin(context.Background(), f.userID, f.metadata)
	require.NoError(t, err)
	require.NotNil(t, run)

	_, err = f.orch.Begin(context.Background(), f.userID, f.metadata)
	assert.ErrorIs(t, err, runlock.ErrRunInProgress)
}

func TestOrchestrator_Execute_NotBegun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	run := &audit.Run{ID: uuid.New(), UserID: f.userID}

	got, err := f.orch.Execute(context.Background(), run)
	require.Error(t, err)
	assert.Same(t, run, got)
	assert.Contains(t, err.Error(), "was not started")
}

func TestOrchestrator_Execute_PersistenceFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	run := f.expectBegin(runID)

	begun, err := f.orch.Begin(context.Background(), f.userID, f.metadata)
	require.NoError(t, err)
	assert.Same(t, run, begun)

	dbErr := errors.New("disk full")
	f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeContacts, gomock.Any()).Return(nil, nil)
	f.store.EXPECT().SaveCriterion(gomock.Any(), runID, gomock.Any()).Return(nil, dbErr)
	f.store.EXPECT().Finish(gomock.Any(), runID, status.RunStatusFailed, dbErr.Error()).Return(nil)
	f.store.EXPECT().GetRun(gomock.Any(), runID).Return(nil, errors.New("gone"))

	got, err := f.orch.Execute(context.Background(), begun)
	assert.ErrorIs(t, err, dbErr)
	require.NotNil(t, got)
	assert.Equal(t, status.RunStatusFailed, got.Status)
	assert.Equal(t, "disk full", got.ErrorMessage)
}
