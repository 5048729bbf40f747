package report

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"catalogsync/internal"
)

const (
	summarySheet  = "run"
	productsSheet = "products"
	mediaSheet    = "media"
)

// ExportRunToXLSX writes one journaled run to a workbook with a summary
// sheet plus one sheet per kind of journal row.
func ExportRunToXLSX(run internal.RunRow, writes []internal.ProductWrite, events []internal.MediaEvent, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"run_id", run.ID},
		{"job", run.Job},
		{"status", string(run.Status)},
		{"started_at", run.StartedAt},
		{"finished_at", derefString(run.FinishedAt)},
		{"error", derefString(run.Error)},
	}
	for name, n := range run.Counts {
		summary = append(summary, []any{"count." + name, n})
	}
	writeRows(f, summarySheet, nil, summary)

	if len(writes) > 0 {
		rows := make([][]any, 0, len(writes))
		for _, w := range writes {
			rows = append(rows, []any{w.RowNo, w.SKU, w.RemoteID, string(w.Action), w.Permalink})
		}
		if _, err := f.NewSheet(productsSheet); err != nil {
			return err
		}
		writeRows(f, productsSheet, []string{"row_no", "sku", "remote_id", "action", "permalink"}, rows)
	}

	if len(events) > 0 {
		rows := make([][]any, 0, len(events))
		for _, e := range events {
			rows = append(rows, []any{e.Path, e.SKU, optionalID(e.ProductID), optionalID(e.MediaID), e.SourceURL, string(e.Outcome), e.Error, e.CreatedAt})
		}
		if _, err := f.NewSheet(mediaSheet); err != nil {
			return err
		}
		writeRows(f, mediaSheet, []string{"path", "sku", "product_id", "media_id", "source_url", "outcome", "error", "created_at"}, rows)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeRows(f *excelize.File, sheet string, headers []string, rows [][]any) {
	r := 1
	if len(headers) > 0 {
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, r)
			_ = f.SetCellValue(sheet, cell, h)
		}
		r++
	}
	for _, row := range rows {
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
		r++
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func optionalID(v int64) any {
	if v == 0 {
		return ""
	}
	return v
}
