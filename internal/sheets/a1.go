package sheets

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Range struct {
	Sheet    string
	StartCol string
	StartRow int
	EndCol   string
	EndRow   int
}

func NewRange(sheet, startCol string, startRow int, endCol string, endRow int) Range {
	return Range{Sheet: sheet, StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}
}

func (r Range) String() string {
	return fmt.Sprintf("%s!%s%d:%s%d", quoteSheet(r.Sheet), r.StartCol, r.StartRow, r.EndCol, r.EndRow)
}

// Width is the number of columns the range spans.
func (r Range) Width() (int, error) {
	start, err := excelize.ColumnNameToNumber(r.StartCol)
	if err != nil {
		return 0, err
	}
	end, err := excelize.ColumnNameToNumber(r.EndCol)
	if err != nil {
		return 0, err
	}
	if end < start {
		return 0, fmt.Errorf("range %s ends before it starts", r)
	}
	return end - start + 1, nil
}

// ParseRange accepts "Sheet!A2:X3000" and "'My Sheet'!E2:E3000".
func ParseRange(a1 string) (Range, error) {
	sheet, cells, ok := cutSheet(a1)
	if !ok {
		return Range{}, fmt.Errorf("range %q has no sheet name", a1)
	}
	from, to, ok := strings.Cut(cells, ":")
	if !ok {
		return Range{}, fmt.Errorf("range %q is not a span", a1)
	}
	startCol, startRow, err := excelize.SplitCellName(from)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", a1, err)
	}
	endCol, endRow, err := excelize.SplitCellName(to)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", a1, err)
	}
	return Range{Sheet: sheet, StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}, nil
}

// Cell builds a single-cell reference such as "KOLSTAD!C5".
func Cell(sheet, col string, row int) string {
	return fmt.Sprintf("%s!%s%d", quoteSheet(sheet), col, row)
}

// ParseCell splits "Sheet!C5" into the sheet name and the bare cell name.
func ParseCell(a1 string) (string, string, error) {
	sheet, cell, ok := cutSheet(a1)
	if !ok {
		return "", "", fmt.Errorf("cell %q has no sheet name", a1)
	}
	if _, _, err := excelize.SplitCellName(cell); err != nil {
		return "", "", fmt.Errorf("cell %q: %w", a1, err)
	}
	return sheet, cell, nil
}

func cutSheet(a1 string) (string, string, bool) {
	idx := strings.LastIndex(a1, "!")
	if idx <= 0 {
		return "", "", false
	}
	sheet := a1[:idx]
	if len(sheet) >= 2 && strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, a1[idx+1:], true
}

func quoteSheet(name string) string {
	for _, r := range name {
		if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}
