package state

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeo/crm-audit-server/database"
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/status"
)

func TestDBRunService_Lifecycle(t *testing.T) {
	t.Parallel()

	pool, cleanup := database.SetupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	svc := NewDBRunService(pool)

	latest, err := svc.Latest(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, latest, "no completed run yet")

	first, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, status.RunStatusInProgress, first.Status)
	assert.Nil(t, first.CompletedAt)

	latest, err = svc.Latest(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, latest, "in progress runs are not considered")

	completedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Complete(ctx, first.ID, Totals{Contacts: 3, Companies: 2, Deals: 1}, completedAt))
	assert.ErrorIs(t, svc.Complete(ctx, first.ID, Totals{}, completedAt), ErrRunNotInProgress)
	assert.ErrorIs(t, svc.Fail(ctx, first.ID, "late"), ErrRunNotInProgress)

	second, err := svc.Create(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Fail(ctx, second.ID, "upstream down"))

	latest, err = svc.Latest(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, first.ID, latest.ID)
	require.NotNil(t, latest.CompletedAt)
	assert.True(t, completedAt.Equal(*latest.CompletedAt))
	assert.Equal(t, Totals{Contacts: 3, Companies: 2, Deals: 1}, latest.Totals)

	failed, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, status.RunStatusFailed, failed.Status)
	assert.Equal(t, "upstream down", failed.ErrorMessage)

	runs, err := svc.List(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	totals, err := svc.CountSnapshots(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestDBRunService_Missing(t *testing.T) {
	t.Parallel()

	pool, cleanup := database.SetupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	svc := NewDBRunService(pool)
	missing := uuid.New()

	_, err := svc.Get(ctx, missing)
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.ErrorIs(t, svc.Fail(ctx, missing, "x"), db.ErrNotFound)
	assert.ErrorIs(t, svc.Complete(ctx, missing, Totals{}, time.Now()), db.ErrNotFound)
}

func TestTotals_Map(t *testing.T) {
	t.Parallel()

	assert.Equal(t, map[string]int{"contacts": 1, "companies": 2, "deals": 3},
		Totals{Contacts: 1, Companies: 2, Deals: 3}.Map())
}
