package status

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRunStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status   RunStatus
		valid    bool
		terminal bool
	}{
		{RunStatusInProgress, true, false},
		{RunStatusCompleted, true, true},
		{RunStatusFailed, true, true},
		{RunStatus("cancelled"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestRunError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	notStarted := &RunError{Kind: RunKindSync, Err: cause}
	assert.Equal(t, "sync run not started: boom", notStarted.Error())

	id := uuid.MustParse("6f1c2b0e-1d4c-4f7e-9a55-0c3c5c1e2a10")
	failed := &RunError{Kind: RunKindAudit, RunID: id, Err: cause}
	assert.Equal(t, "audit run 6f1c2b0e-1d4c-4f7e-9a55-0c3c5c1e2a10 failed: boom", failed.Error())
	assert.ErrorIs(t, failed, cause)

	var runErr *RunError
	assert.True(t, errors.As(error(failed), &runErr))
	assert.Equal(t, id, runErr.RunID)
}
