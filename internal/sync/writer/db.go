package writer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forgeo/crm-audit-server/internal/crm"
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/db/sqlc"
)

const tempSnapshotTable = "temp_crm_snapshot"

var tempSnapshotColumns = []string{"seq", "crm_id", "properties", "col_a", "col_b", "col_c"}

// indexedColumns maps each object type to the properties copied into col_a..col_c
var indexedColumns = map[crm.ObjectType][3]string{
	crm.ObjectTypeContacts:  {"email", "firstname", "lastname"},
	crm.ObjectTypeCompanies: {"name", "domain", ""},
	crm.ObjectTypeDeals:     {"dealname", "amount", "pipeline"},
}

// dbSnapshotWriter is a SnapshotWriter persisting to the crm_* snapshot tables
type dbSnapshotWriter struct {
	pool *pgxpool.Pool
}

// NewDBSnapshotWriter creates a SnapshotWriter with the given connection pool.
// The caller is responsible for closing the pool when done.
func NewDBSnapshotWriter(pool *pgxpool.Pool) (SnapshotWriter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &dbSnapshotWriter{pool: pool}, nil
}

// Store copies the objects into a temporary table and upserts them into the snapshot
// table of their type, all inside one serializable transaction. The temp table is
// dropped on commit.
func (d *dbSnapshotWriter) Store(
	ctx context.Context,
	syncID uuid.UUID,
	objectType crm.ObjectType,
	objects []crm.Object,
) (int64, error) {
	columns, ok := indexedColumns[objectType]
	if !ok {
		return 0, fmt.Errorf("unknown object type %q", objectType)
	}
	if len(objects) == 0 {
		return 0, nil
	}

	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return 0, db.Wrap("begin transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			slog.Warn("Failed to roll back snapshot transaction", "sync_id", syncID, "error", rollbackErr)
		}
	}()

	querier := sqlc.New(tx)
	if err := querier.CreateTempSnapshotTable(ctx); err != nil {
		return 0, db.Wrap("create temp snapshot table", err)
	}

	rows := make([][]any, 0, len(objects))
	for i, obj := range objects {
		properties, err := json.Marshal(obj.Properties)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize properties of %s %s: %w", objectType, obj.ID, err)
		}
		rows = append(rows, []any{
			int64(i),
			obj.ID,
			properties,
			indexedValue(obj.Properties, columns[0]),
			indexedValue(obj.Properties, columns[1]),
			indexedValue(obj.Properties, columns[2]),
		})
	}

	copyCount, err := tx.CopyFrom(ctx, pgx.Identifier{tempSnapshotTable}, tempSnapshotColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, db.Wrap(fmt.Sprintf("copy %s to temp table", objectType), err)
	}
	if int(copyCount) != len(objects) {
		return 0, fmt.Errorf("copy count mismatch: expected %d, got %d", len(objects), copyCount)
	}

	var upserted int64
	switch objectType {
	case crm.ObjectTypeContacts:
		upserted, err = querier.UpsertContactsFromTemp(ctx, syncID)
	case crm.ObjectTypeCompanies:
		upserted, err = querier.UpsertCompaniesFromTemp(ctx, syncID)
	case crm.ObjectTypeDeals:
		upserted, err = querier.UpsertDealsFromTemp(ctx, syncID)
	}
	if err != nil {
		return 0, db.Wrap(fmt.Sprintf("upsert %s from temp table", objectType), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, db.Wrap("commit snapshot transaction", err)
	}

	slog.Debug("Stored snapshot", "sync_id", syncID, "object_type", objectType, "rows", upserted)
	return upserted, nil
}

func indexedValue(props crm.Properties, key string) *string {
	if key == "" {
		return nil
	}
	v := props.Get(key)
	if v == "" {
		return nil
	}
	return &v
}
