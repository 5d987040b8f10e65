// Package service provides the business logic behind the audit API.
//
// It composes the audit orchestrator, the sync runner, the freshness checker and the
// auto-sync coordinator. Runs requested through the API are started here and executed
// in the background, detached from the request that triggered them.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/audit"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
	"github.com/forgeo/crm-audit-server/internal/sync/coordinator"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

var (
	// ErrNoCompletedSync is returned when a user never completed a sync
	ErrNoCompletedSync = errors.New("no completed sync")
	// ErrUnknownCriterion is returned when a detail request names a criterion the catalog lacks
	ErrUnknownCriterion = errors.New("unknown criterion")
	// ErrSchedulerUnavailable is returned when no coordinator is configured
	ErrSchedulerUnavailable = errors.New("scheduler not configured")
	// ErrInvalidOption is returned when a list or page option is out of range
	ErrInvalidOption = errors.New("invalid option")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/forgeo/crm-audit-server/internal/service Service

// Service defines the operations exposed by the API
type Service interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// StartAudit begins an audit and executes it in the background
	StartAudit(ctx context.Context, userID string, meta audit.Metadata) (*audit.Run, error)
	// ListAudits returns the most recent audits of a user
	ListAudits(ctx context.Context, userID string, opts ...Option[ListOptions]) ([]*audit.Run, error)
	// GetAudit returns an audit with its score summary
	GetAudit(ctx context.Context, id uuid.UUID) (*AuditSummary, error)
	// DeleteAudit removes an audit with its results and detail items
	DeleteAudit(ctx context.Context, id uuid.UUID) error
	// GetAuditResults returns the results decorated with catalog attributes
	GetAuditResults(ctx context.Context, id uuid.UUID) ([]audit.DecoratedResult, error)
	// GetAuditScores returns the per category and overall scores
	GetAuditScores(ctx context.Context, id uuid.UUID) (*audit.Scores, error)
	// GetIssueDetails returns one page of violating records of a criterion
	GetIssueDetails(
		ctx context.Context, id uuid.UUID, cat audit.Category, criterion string, opts ...Option[DetailOptions],
	) (*audit.DetailPage, error)
	// ExportAudit renders the audit as an XLSX workbook
	ExportAudit(ctx context.Context, id uuid.UUID) (*Export, error)

	// StartSync begins a sync and executes it in the background
	StartSync(ctx context.Context, userID string) (*state.Run, error)
	// LatestSync returns the last completed sync or ErrNoCompletedSync
	LatestSync(ctx context.Context, userID string) (*state.Run, error)
	// ListSyncs returns the most recent syncs of a user
	ListSyncs(ctx context.Context, userID string, opts ...Option[ListOptions]) ([]*state.Run, error)
	// Freshness assesses the snapshot of a user
	Freshness(ctx context.Context, userID string) (*pkgsync.Assessment, error)
	// Login assesses the snapshot of a user and starts a sync when the login gate asks for one
	Login(ctx context.Context, userID string) (*LoginResult, error)

	// SchedulerStatus reports the auto-sync coordinator state
	SchedulerStatus() (*coordinator.Status, error)
	// TriggerScheduler requests an immediate sweep
	TriggerScheduler() (bool, error)

	// Shutdown waits for background runs to finish or ctx to expire
	Shutdown(ctx context.Context) error
}

// AuditSummary is an audit with its scores
type AuditSummary struct {
	*audit.Run
	Scores audit.Scores `json:"scores"`
}

// LoginResult is the outcome of the login gate
type LoginResult struct {
	Freshness   pkgsync.Assessment `json:"freshness"`
	SyncStarted bool               `json:"sync_started"`
	Sync        *state.Run         `json:"sync,omitempty"`
	// SyncError explains why a requested sync could not start
	SyncError string `json:"sync_error,omitempty"`
}

// Export is a rendered audit workbook
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}
