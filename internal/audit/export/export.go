// Package export renders audit runs as XLSX workbooks
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/forgeo/crm-audit-server/internal/audit"
)

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const summarySheet = "Summary"

var resultHeader = []string{
	"Criterion", "Description", "Field", "Severity", "Fixable", "Fix Method", "Empty", "Total", "Percentage",
}

var resultColumnWidths = []float64{22, 48, 24, 10, 10, 24, 10, 10, 12}

// Workbook builds a workbook with a summary sheet and one sheet per category
func Workbook(run *audit.Run, results []audit.DecoratedResult, scores audit.Scores) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, headerStyle, run, scores); err != nil {
		return nil, err
	}

	for _, cat := range audit.Categories {
		if err := writeCategory(f, headerStyle, cat, results); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns the attachment name for a run
func Filename(run *audit.Run) string {
	return fmt.Sprintf("audit-%s.xlsx", run.ID)
}

func writeSummary(f *excelize.File, headerStyle int, run *audit.Run, scores audit.Scores) error {
	rows := [][]any{
		{"Audit", run.ID.String()},
		{"Title", run.Title},
		{"Company", run.CompanyName},
		{"Description", run.Description},
		{"Status", string(run.Status)},
		{"Created", run.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Contacts", run.Totals.Contacts},
		{"Companies", run.Totals.Companies},
		{"Deals", run.Totals.Deals},
		{"Overall score", scores.Overall},
		{},
		{"Category", "Score", "Empty", "Total", "Criteria"},
	}
	headerRow := len(rows)
	for _, cs := range scores.Categories {
		rows = append(rows, []any{string(cs.Category), cs.Score, cs.EmptyCount, cs.TotalCount, cs.Criteria})
	}

	if err := writeRows(f, summarySheet, 1, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", headerRow-2), headerStyle); err != nil {
		return fmt.Errorf("failed to style summary labels: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("E%d", headerRow), headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return f.SetColWidth(summarySheet, "B", "B", 40)
}

func writeCategory(f *excelize.File, headerStyle int, cat audit.Category, results []audit.DecoratedResult) error {
	sheet := string(cat)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	header := make([]any, len(resultHeader))
	for i, h := range resultHeader {
		header[i] = h
	}
	rows := [][]any{header}
	for _, r := range results {
		if r.Category != cat {
			continue
		}
		fixable := "No"
		if r.Fixable {
			fixable = "Yes"
		}
		rows = append(rows, []any{
			r.CriterionKey, r.Description, r.FieldName, string(r.Severity), fixable, r.FixMethod,
			r.EmptyCount, r.TotalCount, r.Percentage,
		})
	}

	if err := writeRows(f, sheet, 1, rows); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(resultHeader))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet, err)
	}
	for i, width := range resultColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", startRow+i, sheet, err)
		}
	}
	return nil
}
