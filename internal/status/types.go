// Package status contains the run lifecycle types shared by audit and sync runs.
package status

import (
	"fmt"

	"github.com/google/uuid"
)

// RunStatus represents the lifecycle state of an audit or sync run
type RunStatus string

const (
	// RunStatusInProgress means the run has been created and has not finished yet
	RunStatusInProgress RunStatus = "in_progress"

	// RunStatusCompleted means the run finished successfully
	RunStatusCompleted RunStatus = "completed"

	// RunStatusFailed means the run stopped on an error
	RunStatusFailed RunStatus = "failed"
)

// IsTerminal reports whether the status can no longer change.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusInProgress, RunStatusCompleted, RunStatusFailed:
		return true
	default:
		return false
	}
}

// RunKind identifies which orchestrator owns a run
type RunKind string

const (
	// RunKindAudit is a data quality audit run
	RunKindAudit RunKind = "audit"

	// RunKindSync is a snapshot synchronization run
	RunKindSync RunKind = "sync"
)

// RunError is returned by both orchestrators when a run could not produce a completed result.
// RunID is uuid.Nil when the failure happened before the run row was created.
type RunError struct {
	Kind  RunKind
	RunID uuid.UUID
	Err   error
}

func (e *RunError) Error() string {
	if e.RunID == uuid.Nil {
		return fmt.Sprintf("%s run not started: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s run %s failed: %v", e.Kind, e.RunID, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
