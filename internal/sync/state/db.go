package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/db/sqlc"
	"github.com/forgeo/crm-audit-server/internal/status"
)

// ErrRunNotInProgress is returned when a finished run is asked to finish again
var ErrRunNotInProgress = errors.New("sync run is not in progress")

type dbRunService struct {
	pool *pgxpool.Pool
}

// NewDBRunService creates a database-backed RunService
func NewDBRunService(pool *pgxpool.Pool) RunService {
	return &dbRunService{pool: pool}
}

func (d *dbRunService) Create(ctx context.Context, userID string) (*Run, error) {
	row, err := sqlc.New(d.pool).InsertSyncRun(ctx, userID)
	if err != nil {
		return nil, db.Wrap("create sync run", err)
	}
	return toRun(row), nil
}

func (d *dbRunService) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	row, err := sqlc.New(d.pool).GetSyncRun(ctx, id)
	if err != nil {
		return nil, db.Wrap("get sync run", err)
	}
	return toRun(row), nil
}

func (d *dbRunService) Latest(ctx context.Context, userID string) (*Run, error) {
	row, err := sqlc.New(d.pool).GetLatestCompletedSyncRun(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, db.Wrap("get latest completed sync run", err)
	}
	return toRun(row), nil
}

func (d *dbRunService) List(ctx context.Context, userID string, limit int) ([]*Run, error) {
	rows, err := sqlc.New(d.pool).ListSyncRunsByUser(ctx, sqlc.ListSyncRunsByUserParams{
		UserID: userID,
		Size:   int32(limit),
	})
	if err != nil {
		return nil, db.Wrap("list sync runs", err)
	}

	runs := make([]*Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, toRun(row))
	}
	return runs, nil
}

func (d *dbRunService) CountSnapshots(ctx context.Context, id uuid.UUID) (Totals, error) {
	queries := sqlc.New(d.pool)

	contacts, err := queries.CountContactsBySync(ctx, id)
	if err != nil {
		return Totals{}, db.Wrap("count contacts", err)
	}
	companies, err := queries.CountCompaniesBySync(ctx, id)
	if err != nil {
		return Totals{}, db.Wrap("count companies", err)
	}
	deals, err := queries.CountDealsBySync(ctx, id)
	if err != nil {
		return Totals{}, db.Wrap("count deals", err)
	}

	return Totals{Contacts: int(contacts), Companies: int(companies), Deals: int(deals)}, nil
}

func (d *dbRunService) Complete(ctx context.Context, id uuid.UUID, totals Totals, completedAt time.Time) error {
	completedAt = completedAt.UTC()
	n, err := sqlc.New(d.pool).CompleteSyncRun(ctx, sqlc.CompleteSyncRunParams{
		CompletedAt:    &completedAt,
		TotalContacts:  int32(totals.Contacts),
		TotalCompanies: int32(totals.Companies),
		TotalDeals:     int32(totals.Deals),
		ID:             id,
	})
	if err != nil {
		return db.Wrap("complete sync run", err)
	}
	return d.checkUpdated(ctx, id, n)
}

func (d *dbRunService) Fail(ctx context.Context, id uuid.UUID, errMsg string) error {
	n, err := sqlc.New(d.pool).FailSyncRun(ctx, sqlc.FailSyncRunParams{
		ErrorMsg: &errMsg,
		ID:       id,
	})
	if err != nil {
		return db.Wrap("fail sync run", err)
	}
	return d.checkUpdated(ctx, id, n)
}

// checkUpdated tells a missing run apart from one that is already terminal
func (d *dbRunService) checkUpdated(ctx context.Context, id uuid.UUID, rows int64) error {
	if rows > 0 {
		return nil
	}
	if _, err := d.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("sync run %s: %w", id, ErrRunNotInProgress)
}

func toRun(row sqlc.SyncRun) *Run {
	run := &Run{
		ID:          row.ID,
		UserID:      row.UserID,
		Status:      status.RunStatus(row.Status),
		CreatedAt:   row.CreatedAt,
		CompletedAt: row.CompletedAt,
		Totals: Totals{
			Contacts:  int(row.TotalContacts),
			Companies: int(row.TotalCompanies),
			Deals:     int(row.TotalDeals),
		},
	}
	if row.ErrorMsg != nil {
		run.ErrorMessage = *row.ErrorMsg
	}
	return run
}
