// Package store persists audit runs in PostgreSQL
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/db/sqlc"
	"github.com/forgeo/crm-audit-server/internal/status"
)

type dbStore struct {
	pool *pgxpool.Pool
}

// NewDBStore creates an audit.Store backed by the given pool
func NewDBStore(pool *pgxpool.Pool) audit.Store {
	return &dbStore{pool: pool}
}

func (s *dbStore) CreateRun(ctx context.Context, userID string, meta audit.Metadata) (*audit.Run, error) {
	row, err := sqlc.New(s.pool).InsertAuditRun(ctx, sqlc.InsertAuditRunParams{
		UserID:      userID,
		Title:       meta.Title,
		Description: optional(meta.Description),
		CompanyName: optional(meta.CompanyName),
	})
	if err != nil {
		return nil, db.Wrap("create audit run", err)
	}
	return toRun(row), nil
}

func (s *dbStore) GetRun(ctx context.Context, id uuid.UUID) (*audit.Run, error) {
	row, err := sqlc.New(s.pool).GetAuditRun(ctx, id)
	if err != nil {
		return nil, db.Wrap("get audit run", err)
	}
	return toRun(row), nil
}

func (s *dbStore) ListRuns(ctx context.Context, userID string, limit int) ([]*audit.Run, error) {
	rows, err := sqlc.New(s.pool).ListAuditRunsByUser(ctx, sqlc.ListAuditRunsByUserParams{
		UserID: userID,
		Size:   int32(limit),
	})
	if err != nil {
		return nil, db.Wrap("list audit runs", err)
	}

	runs := make([]*audit.Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, toRun(row))
	}
	return runs, nil
}

// SaveCriterion inserts the result first so its id can be referenced by the detail
// items, which are then copied in bulk within the same transaction.
func (s *dbStore) SaveCriterion(
	ctx context.Context,
	runID uuid.UUID,
	scored audit.ScoredCriterion,
) (*audit.Result, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, db.Wrap("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	queries := sqlc.New(s.pool).WithTx(tx)
	category := sqlc.AuditCategory(scored.Criterion.Category)

	row, err := queries.InsertAuditResult(ctx, sqlc.InsertAuditResultParams{
		AuditID:      runID,
		Category:     category,
		CriterionKey: scored.Criterion.Key,
		FieldName:    scored.Field,
		EmptyCount:   int32(scored.EmptyCount),
		TotalCount:   int32(scored.TotalCount),
		Percentage:   scored.Percentage,
	})
	if err != nil {
		return nil, db.Wrap(fmt.Sprintf("insert result %s/%s", category, scored.Criterion.Key), err)
	}

	if len(scored.Violations) > 0 {
		items := make([]sqlc.InsertAuditDetailItemsParams, 0, len(scored.Violations))
		for _, obj := range scored.Violations {
			payload, err := json.Marshal(obj.Properties)
			if err != nil {
				return nil, fmt.Errorf("failed to encode properties of %s: %w", obj.ID, err)
			}
			items = append(items, sqlc.InsertAuditDetailItemsParams{
				AuditID:      runID,
				ResultID:     row.ID,
				Category:     category,
				CriterionKey: scored.Criterion.Key,
				CrmID:        obj.ID,
				Payload:      payload,
			})
		}
		if _, err := queries.InsertAuditDetailItems(ctx, items); err != nil {
			return nil, db.Wrap(fmt.Sprintf("insert detail items %s/%s", category, scored.Criterion.Key), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, db.Wrap("commit result", err)
	}

	result := toResult(row)
	return &result, nil
}

func (s *dbStore) UpdateTotals(ctx context.Context, runID uuid.UUID, totals audit.Totals) error {
	n, err := sqlc.New(s.pool).UpdateAuditRunTotals(ctx, sqlc.UpdateAuditRunTotalsParams{
		ContactsTotal:  int32(totals.Contacts),
		CompaniesTotal: int32(totals.Companies),
		DealsTotal:     int32(totals.Deals),
		ID:             runID,
	})
	if err != nil {
		return db.Wrap("update audit totals", err)
	}
	if n == 0 {
		return fmt.Errorf("update audit totals: %w", db.ErrNotFound)
	}
	return nil
}

func (s *dbStore) Finish(ctx context.Context, runID uuid.UUID, st status.RunStatus, errMsg string) error {
	if !st.IsTerminal() {
		return fmt.Errorf("cannot finish audit run with status %s", st)
	}

	queries := sqlc.New(s.pool)
	n, err := queries.FinishAuditRun(ctx, sqlc.FinishAuditRunParams{
		Status:   sqlc.RunStatus(st),
		ErrorMsg: optional(errMsg),
		ID:       runID,
	})
	if err != nil {
		return db.Wrap("finish audit run", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: the run is either gone or already terminal
	if _, err := queries.GetAuditRun(ctx, runID); err != nil {
		return db.Wrap("finish audit run", err)
	}
	return audit.ErrRunFinished
}

func (s *dbStore) DeleteRun(ctx context.Context, id uuid.UUID) error {
	n, err := sqlc.New(s.pool).DeleteAuditRun(ctx, id)
	if err != nil {
		return db.Wrap("delete audit run", err)
	}
	if n == 0 {
		return fmt.Errorf("delete audit run: %w", db.ErrNotFound)
	}
	return nil
}

func (s *dbStore) ListResults(ctx context.Context, runID uuid.UUID) ([]audit.Result, error) {
	rows, err := sqlc.New(s.pool).ListAuditResults(ctx, runID)
	if err != nil {
		return nil, db.Wrap("list audit results", err)
	}

	results := make([]audit.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, toResult(row))
	}
	return results, nil
}

func (s *dbStore) CountDetails(ctx context.Context, runID uuid.UUID, cat audit.Category, key string) (int, error) {
	n, err := sqlc.New(s.pool).CountAuditDetailItems(ctx, sqlc.CountAuditDetailItemsParams{
		AuditID:      runID,
		Category:     sqlc.AuditCategory(cat),
		CriterionKey: key,
	})
	if err != nil {
		return 0, db.Wrap("count audit detail items", err)
	}
	return int(n), nil
}

func (s *dbStore) ListDetails(
	ctx context.Context,
	runID uuid.UUID,
	cat audit.Category,
	key string,
	limit, offset int,
) ([]audit.DetailItem, error) {
	rows, err := sqlc.New(s.pool).ListAuditDetailItems(ctx, sqlc.ListAuditDetailItemsParams{
		AuditID:      runID,
		Category:     sqlc.AuditCategory(cat),
		CriterionKey: key,
		Size:         int32(limit),
		Skip:         int32(offset),
	})
	if err != nil {
		return nil, db.Wrap("list audit detail items", err)
	}

	items := make([]audit.DetailItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, audit.DetailItem{
			ID:           row.ID,
			ResultID:     row.ResultID,
			Category:     audit.Category(row.Category),
			CriterionKey: row.CriterionKey,
			CrmID:        row.CrmID,
			Payload:      json.RawMessage(row.Payload),
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func toRun(row sqlc.AuditRun) *audit.Run {
	return &audit.Run{
		ID:     row.ID,
		UserID: row.UserID,
		Metadata: audit.Metadata{
			Title:       row.Title,
			Description: deref(row.Description),
			CompanyName: deref(row.CompanyName),
		},
		Status: status.RunStatus(row.Status),
		Totals: audit.Totals{
			Contacts:  int(row.ContactsTotal),
			Companies: int(row.CompaniesTotal),
			Deals:     int(row.DealsTotal),
		},
		ErrorMessage: deref(row.ErrorMsg),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toResult(row sqlc.AuditResult) audit.Result {
	return audit.Result{
		ID:           row.ID,
		AuditID:      row.AuditID,
		Category:     audit.Category(row.Category),
		CriterionKey: row.CriterionKey,
		FieldName:    row.FieldName,
		EmptyCount:   int(row.EmptyCount),
		TotalCount:   int(row.TotalCount),
		Percentage:   row.Percentage,
		CreatedAt:    row.CreatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
