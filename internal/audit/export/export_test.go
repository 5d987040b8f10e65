package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/status"
)

func TestWorkbook(t *testing.T) {
	t.Parallel()

	run := &audit.Run{
		ID:        uuid.New(),
		UserID:    "alice",
		Metadata:  audit.Metadata{Title: "Quarterly", CompanyName: "Acme"},
		Status:    status.RunStatusCompleted,
		Totals:    audit.Totals{Contacts: 4, Deals: 2},
		CreatedAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	results := []audit.Result{
		{Category: audit.CategoryContact, CriterionKey: "missing_email", FieldName: "email", EmptyCount: 1, TotalCount: 4, Percentage: 25},
		{Category: audit.CategoryDeal, CriterionKey: "missing_next_step", FieldName: "hs_next_step", EmptyCount: 2, TotalCount: 2, Percentage: 100},
	}
	decorated := audit.Decorate(audit.DefaultCatalog(), results)

	data, err := Workbook(run, decorated, audit.ComputeScores(results))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "contact", "company", "deal"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly", title)

	rows, err := f.GetRows("deal")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Criterion", rows[0][0])
	assert.Equal(t, []string{
		"missing_next_step", "Deals without next step", "hs_next_step", "medium", "Yes", "set_default_next_step", "2", "2", "100",
	}, rows[1])

	rows, err = f.GetRows("company")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	assert.Equal(t, "audit-"+run.ID.String()+".xlsx", Filename(run))
}
