package xlsx

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	sheetpkg "catalogsync/internal/sheets"
)

// Workbook serves a local .xlsx export of the catalog sheet. Every write is
// saved to disk before Write returns, so an aborted job keeps the cells it
// already wrote.
type Workbook struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

func (w *Workbook) Read(ctx context.Context, a1 string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng, err := sheetpkg.ParseRange(a1)
	if err != nil {
		return nil, err
	}
	width, err := rng.Width()
	if err != nil {
		return nil, err
	}
	startCol, err := excelize.ColumnNameToNumber(rng.StartCol)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	rows, err := w.file.GetRows(rng.Sheet)
	w.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a1, err)
	}

	out := make([][]string, 0)
	for r := rng.StartRow; r <= rng.EndRow && r <= len(rows); r++ {
		row := rows[r-1]
		cells := make([]string, width)
		for c := 0; c < width; c++ {
			idx := startCol - 1 + c
			if idx < len(row) {
				cells[c] = row[idx]
			}
		}
		out = append(out, cells)
	}
	return out, nil
}

func (w *Workbook) Write(ctx context.Context, cell string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sheet, name, err := sheetpkg.ParseCell(cell)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.file.SetCellStr(sheet, name, value); err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
