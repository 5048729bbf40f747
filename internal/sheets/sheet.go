package sheets

import "context"

// Sheet is a spreadsheet holding the product catalog.
type Sheet interface {
	// Read returns the rows of an A1 range. Every row is padded to the range
	// width; trailing blank rows may be omitted.
	Read(ctx context.Context, a1 string) ([][]string, error)
	// Write sets a single cell, addressed in A1 notation.
	Write(ctx context.Context, cell string, value string) error
	Close() error
}

// PadRows pads short rows with blanks so positional access never runs past
// the end of a row the backend trimmed.
func PadRows(rows [][]string, width int) [][]string {
	for i, row := range rows {
		if len(row) >= width {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		rows[i] = padded
	}
	return rows
}
