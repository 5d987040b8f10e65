package sync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
	statemocks "github.com/forgeo/crm-audit-server/internal/sync/state/mocks"
)

func TestFreshnessChecker_Check(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	completedAt := now.Add(-30 * time.Hour)

	tests := []struct {
		name       string
		latest     *state.Run
		latestErr  error
		wantReason pkgsync.Reason
		wantErr    bool
	}{
		{name: "never synced", wantReason: pkgsync.ReasonNoPreviousSync},
		{name: "old sync", latest: &state.Run{CompletedAt: &completedAt}, wantReason: pkgsync.ReasonVeryOld},
		{name: "lookup failure", latestErr: errors.New("db down"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			runs := statemocks.NewMockRunService(ctrl)
			runs.EXPECT().Latest(gomock.Any(), "carol").Return(tt.latest, tt.latestErr)

			got, err := pkgsync.NewFreshnessChecker(runs, clock).Check(context.Background(), "carol")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "carol")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.True(t, got.ShouldSync)
		})
	}
}
