package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/forgeo/crm-audit-server/internal/status"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/forgeo/crm-audit-server/internal/audit Store

// ErrRunFinished is returned when a terminal run is asked to change status
var ErrRunFinished = errors.New("audit run already finished")

// Metadata is the user supplied description of an audit
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// Totals holds the number of records fetched per category
type Totals struct {
	Contacts  int `json:"contacts"`
	Companies int `json:"companies"`
	Deals     int `json:"deals"`
}

// Set records the total of one category
func (t *Totals) Set(cat Category, n int) {
	switch cat {
	case CategoryContact:
		t.Contacts = n
	case CategoryCompany:
		t.Companies = n
	case CategoryDeal:
		t.Deals = n
	}
}

// Map returns the totals keyed by category
func (t Totals) Map() map[string]int {
	return map[string]int{
		string(CategoryContact): t.Contacts,
		string(CategoryCompany): t.Companies,
		string(CategoryDeal):    t.Deals,
	}
}

// Run is a persisted audit run
type Run struct {
	ID           uuid.UUID        `json:"id"`
	UserID       string           `json:"user_id"`
	Metadata                      // title, description, company name
	Status       status.RunStatus `json:"status"`
	Totals       Totals           `json:"totals"`
	ErrorMessage string           `json:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Result is the persisted outcome of one criterion in a run
type Result struct {
	ID           uuid.UUID `json:"id"`
	AuditID      uuid.UUID `json:"audit_id"`
	Category     Category  `json:"category"`
	CriterionKey string    `json:"criterion_key"`
	FieldName    string    `json:"field_name"`
	EmptyCount   int       `json:"empty_count"`
	TotalCount   int       `json:"total_count"`
	Percentage   float64   `json:"percentage"`
	CreatedAt    time.Time `json:"created_at"`
}

// DetailItem is one violating record of a result.
// Payload holds the record properties as fetched.
type DetailItem struct {
	ID           uuid.UUID       `json:"id"`
	ResultID     uuid.UUID       `json:"result_id"`
	Category     Category        `json:"category"`
	CriterionKey string          `json:"criterion_key"`
	CrmID        string          `json:"crm_id"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Store persists audit runs, their results and violating records
type Store interface {
	// CreateRun inserts a new in_progress run
	CreateRun(ctx context.Context, userID string, meta Metadata) (*Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	// ListRuns returns the most recent runs of a user, newest first
	ListRuns(ctx context.Context, userID string, limit int) ([]*Run, error)
	// SaveCriterion stores a result and its violating records atomically
	SaveCriterion(ctx context.Context, runID uuid.UUID, scored ScoredCriterion) (*Result, error)
	UpdateTotals(ctx context.Context, runID uuid.UUID, totals Totals) error
	// Finish moves an in_progress run to a terminal status. Terminal runs are left
	// untouched and ErrRunFinished is returned.
	Finish(ctx context.Context, runID uuid.UUID, st status.RunStatus, errMsg string) error
	// DeleteRun removes a run together with its results and detail items
	DeleteRun(ctx context.Context, id uuid.UUID) error
	ListResults(ctx context.Context, runID uuid.UUID) ([]Result, error)
	CountDetails(ctx context.Context, runID uuid.UUID, cat Category, key string) (int, error)
	ListDetails(ctx context.Context, runID uuid.UUID, cat Category, key string, limit, offset int) ([]DetailItem, error)
}
