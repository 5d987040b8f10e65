package sync_test

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
	"github.com/forgeo/crm-audit-server/internal/crm"
	crmmocks "github.com/forgeo/crm-audit-server/internal/crm/mocks"
	"github.com/forgeo/crm-audit-server/internal/events"
	"github.com/forgeo/crm-audit-server/internal/runlock"
	"github.com/forgeo/crm-audit-server/internal/status"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
	statemocks "github.com/forgeo/crm-audit-server/internal/sync/state/mocks"
	writermocks "github.com/forgeo/crm-audit-server/internal/sync/writer/mocks"
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

type fixture struct {
	runs    *statemocks.MockRunService
	writer  *writermocks.MockSnapshotWriter
	factory *crmmocks.MockFetcherFactory
	fetcher *crmmocks.MockFetcher
	guard   runlock.Guard
	pub     *recordingPublisher
	runner  pkgsync.Runner
	now     time.Time
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		runs:    statemocks.NewMockRunService(ctrl),
		writer:  writermocks.NewMockSnapshotWriter(ctrl),
		factory: crmmocks.NewMockFetcherFactory(ctrl),
		fetcher: crmmocks.NewMockFetcher(ctrl),
		guard:   runlock.NewMemoryGuard(),
		pub:     &recordingPublisher{},
		now:     time.Date(2026, 6, 30, 9, 0, 0, 0, time.UTC),
		userID:  "bob",
	}
	f.runner = pkgsync.NewRunner(f.runs, f.writer, f.factory, f.guard,
		pkgsync.WithRunnerClock(func() time.Time { return f.now }),
		pkgsync.WithRunnerPublisher(f.pub))
	return f
}

func (f *fixture) expectBegin(runID uuid.UUID) *state.Run {
	run := &state.Run{ID: runID, UserID: f.userID, Status: status.RunStatusInProgress}
	f.factory.EXPECT().ForUser(gomock.Any(), f.userID).Return(f.fetcher, nil)
	f.runs.EXPECT().Create(gomock.Any(), f.userID).Return(run, nil)
	return run
}

func objects(ids ...string) []crm.Object {
	out := make([]crm.Object, 0, len(ids))
	for _, id := range ids {
		out = append(out, crm.Object{ID: id, Properties: crm.Properties{}})
	}
	return out
}

func TestRunner_Run_Completes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	f.expectBegin(runID)
	catalog := audit.DefaultCatalog()

	contacts := objects("c1", "c2", "c3")
	companies := objects("co1")
	deals := objects("d1", "d2")

	gomock.InOrder(
		f.fetcher.EXPECT().
			FetchAll(gomock.Any(), crm.ObjectTypeContacts, pkgsync.SnapshotProperties(crm.ObjectTypeContacts, catalog)).
			Return(contacts, nil),
		f.writer.EXPECT().Store(gomock.Any(), runID, crm.ObjectTypeContacts, contacts).Return(int64(3), nil),
		f.fetcher.EXPECT().
			FetchAll(gomock.Any(), crm.ObjectTypeCompanies, pkgsync.SnapshotProperties(crm.ObjectTypeCompanies, catalog)).
			Return(companies, nil),
		f.writer.EXPECT().Store(gomock.Any(), runID, crm.ObjectTypeCompanies, companies).Return(int64(1), nil),
		f.fetcher.EXPECT().
			FetchAll(gomock.Any(), crm.ObjectTypeDeals, pkgsync.SnapshotProperties(crm.ObjectTypeDeals, catalog)).
			Return(deals, nil),
		f.writer.EXPECT().Store(gomock.Any(), runID, crm.ObjectTypeDeals, deals).Return(int64(2), nil),
	)

	// Persisted counts win over fetched counts
	persisted := state.Totals{Contacts: 4, Companies: 1, Deals: 2}
	f.runs.EXPECT().CountSnapshots(gomock.Any(), runID).Return(persisted, nil)
	f.runs.EXPECT().Complete(gomock.Any(), runID, persisted, f.now).Return(nil)
	completedAt := f.now
	f.runs.EXPECT().Get(gomock.Any(), runID).Return(&state.Run{
		ID: runID, UserID: f.userID, Status: status.RunStatusCompleted,
		CompletedAt: &completedAt, Totals: persisted,
	}, nil)

	run, err := f.runner.Run(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, status.RunStatusCompleted, run.Status)
	assert.Equal(t, persisted, run.Totals)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, status.RunKindSync, f.pub.events[0].Kind)
	assert.Equal(t, f.now, f.pub.events[0].FinishedAt)
	assert.Equal(t, 4, f.pub.events[0].Totals["contacts"])

	lease, err := f.guard.Acquire(context.Background(), runlock.Key{UserID: f.userID, Kind: status.RunKindSync})
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
}

func TestRunner_Run_UpstreamFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	f.expectBegin(runID)

	upstream := &crm.UpstreamError{ObjectType: crm.ObjectTypeDeals, StatusCode: 502, Err: errors.New("bad gateway")}
	f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeContacts, gomock.Any()).Return(objects("c1"), nil)
	f.writer.EXPECT().Store(gomock.Any(), runID, crm.ObjectTypeContacts, gomock.Any()).Return(int64(1), nil)
	f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeCompanies, gomock.Any()).Return(nil, nil)
	f.writer.EXPECT().Store(gomock.Any(), runID, crm.ObjectTypeCompanies, gomock.Any()).Return(int64(0), nil)
	f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeDeals, gomock.Any()).Return(nil, upstream)
	f.runs.EXPECT().Fail(gomock.Any(), runID, upstream.Error()).Return(nil)
	f.runs.EXPECT().Get(gomock.Any(), runID).Return(&state.Run{
		ID: runID, UserID: f.userID, Status: status.RunStatusFailed, ErrorMessage: upstream.Error(),
	}, nil)

	run, err := f.runner.Run(context.Background(), f.userID)
	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, status.RunStatusFailed, run.Status)
	assert.Nil(t, run.CompletedAt)

	var runErr *status.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, status.RunKindSync, runErr.Kind)
	assert.Equal(t, runID, runErr.RunID)
	assert.True(t, crm.IsUpstreamError(err))

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, status.RunStatusFailed, f.pub.events[0].Status)
}

func TestRunner_Run_StoreFailureWithoutReload(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	runID := uuid.New()
	f.expectBegin(runID)

	dbErr := errors.New("serialization failure")
	f.fetcher.EXPECT().FetchAll(gomock.Any(), crm.ObjectTypeContacts, gomock.Any()).Return(objects("c1"), nil)
	f.writer.EXPECT().Store(gomock.Any(), runID, crm.ObjectTypeContacts, gomock.Any()).Return(int64(0), dbErr)
	f.runs.EXPECT().Fail(gomock.Any(), runID, dbErr.Error()).Return(errors.New("connection reset"))
	f.runs.EXPECT().Get(gomock.Any(), runID).Return(nil, errors.New("connection reset"))

	run, err := f.runner.Run(context.Background(), f.userID)
	assert.ErrorIs(t, err, dbErr)
	require.NotNil(t, run)
	assert.Equal(t, status.RunStatusFailed, run.Status)
	assert.Equal(t, dbErr.Error(), run.ErrorMessage)
}

func TestRunner_Begin_NoCredential(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.factory.EXPECT().ForUser(gomock.Any(), f.userID).
		Return(nil, &crm.AuthError{UserID: f.userID, Err: tokens.ErrNoActiveToken})

	run, err := f.runner.Run(context.Background(), f.userID)
	assert.Nil(t, run)
	assert.True(t, crm.IsAuthError(err))

	var runErr *status.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, uuid.Nil, runErr.RunID)
}

func TestRunner_Begin_Conflict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectBegin(uuid.New())

	_, err := f.runner.Begin(context.Background(), f.userID)
	require.NoError(t, err)

	run, err := f.runner.Begin(context.Background(), f.userID)
	assert.Nil(t, run)
	assert.ErrorIs(t, err, runlock.ErrRunInProgress)

	// Audits of the same user are not blocked by a sync
	lease, err := f.guard.Acquire(context.Background(), runlock.Key{UserID: f.userID, Kind: status.RunKindAudit})
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
}

func TestRunner_Begin_CreateFailureReleasesGuard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.factory.EXPECT().ForUser(gomock.Any(), f.userID).Return(f.fetcher, nil)
	f.runs.EXPECT().Create(gomock.Any(), f.userID).Return(nil, errors.New("db down"))

	_, err := f.runner.Begin(context.Background(), f.userID)
	require.Error(t, err)

	lease, err := f.guard.Acquire(context.Background(), runlock.Key{UserID: f.userID, Kind: status.RunKindSync})
	require.NoError(t, err)
	require.NoError(t, lease.Release(context.Background()))
}

func TestRunner_Execute_NotBegun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	run := &state.Run{ID: uuid.New(), UserID: f.userID}

	got, err := f.runner.Execute(context.Background(), run)
	require.Error(t, err)
	assert.Same(t, run, got)
	assert.Contains(t, err.Error(), "was not started")

	_, err = f.runner.Execute(context.Background(), nil)
	require.Error(t, err)
}
