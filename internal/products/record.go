package products

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"catalogsync/internal"
	"catalogsync/internal/catalog"
	"catalogsync/internal/util"
)

// RecordWidth is the number of positional columns (A..W) a record needs.
const RecordWidth = 23

const flagYes = "YES"

var ErrShortRow = errors.New("row has too few cells")

// Record is one catalog row. Column letters are noted per field. The two
// flags are kept verbatim so only an exact "YES" passes the gates.
type Record struct {
	RowNo int

	AvgCost         decimal.NullDecimal // A
	ImportFlag      string              // B
	RemoteID        int64               // C, 0 when the product was never created
	UpdateFlag      string              // D
	CategoryPath    string              // E
	Name            string              // F
	LongDescription string              // G
	CrossReference  string              // H
	SKU             string              // I
	Price1          decimal.NullDecimal // J
	Price2          decimal.NullDecimal // K
	Price3          decimal.NullDecimal // L
	Price7          decimal.NullDecimal // M
	Quantity        *int                // N
	ReplacementCost decimal.NullDecimal // O
	Length          decimal.NullDecimal // P
	Width           decimal.NullDecimal // Q
	Height          decimal.NullDecimal // R
	Tags            string              // S
	Supplier        string              // T
	UnitOfMeasure   string              // U
	ModifiedDate    string              // V
	Slug            string              // W
}

// ParseRecord maps a sheet row onto a Record. rowNo is the 1-based sheet row
// and only feeds error messages.
func ParseRecord(row []string, rowNo int) (Record, error) {
	if len(row) < RecordWidth {
		return Record{}, fmt.Errorf("row %d: %w: got %d, want %d", rowNo, ErrShortRow, len(row), RecordWidth)
	}

	p := fieldParser{row: row, rowNo: rowNo}
	rec := Record{
		RowNo:           rowNo,
		AvgCost:         p.decimal(0, "avg cost"),
		ImportFlag:      p.row[1],
		RemoteID:        p.id(2, "remote id"),
		UpdateFlag:      p.row[3],
		CategoryPath:    p.text(4),
		Name:            p.text(5),
		LongDescription: p.text(6),
		CrossReference:  p.text(7),
		SKU:             p.text(8),
		Price1:          p.decimal(9, "price1"),
		Price2:          p.decimal(10, "price2"),
		Price3:          p.decimal(11, "price3"),
		Price7:          p.decimal(12, "price7"),
		Quantity:        p.int(13, "quantity available"),
		ReplacementCost: p.decimal(14, "replacement cost"),
		Length:          p.decimal(15, "length"),
		Width:           p.decimal(16, "width"),
		Height:          p.decimal(17, "height"),
		Tags:            p.text(18),
		Supplier:        p.text(19),
		UnitOfMeasure:   p.text(20),
		ModifiedDate:    p.text(21),
		Slug:            p.text(22),
	}
	if p.err != nil {
		return Record{}, p.err
	}
	return rec, nil
}

func (r Record) ShouldImport() bool { return r.ImportFlag == flagYes }

func (r Record) ShouldUpdate() bool { return r.UpdateFlag == flagYes }

func (r Record) Categories() []string { return catalog.SplitPath(r.CategoryPath) }

func (r Record) LastCategory() string { return catalog.Leaf(r.Categories()) }

// Payload builds the create/update body. When existing is non-nil its fields
// are carried over, minus categories and tags, and the row's values win.
// Categories are sent by name, one entry per path segment.
func (r Record) Payload(existing internal.Product) map[string]any {
	out := make(map[string]any, len(existing)+5)
	for k, v := range existing {
		if k == "categories" || k == "tags" {
			continue
		}
		out[k] = v
	}

	segments := r.Categories()
	categories := make([]map[string]any, 0, len(segments))
	for _, name := range segments {
		categories = append(categories, map[string]any{"name": name})
	}

	price := ""
	if r.Price7.Valid {
		price = r.Price7.Decimal.String()
	}

	out["name"] = r.Name
	out["type"] = "simple"
	out["regular_price"] = price
	out["description"] = r.LongDescription
	out["categories"] = categories
	return out
}

type fieldParser struct {
	row   []string
	rowNo int
	err   error
}

func (p *fieldParser) text(i int) string {
	return strings.TrimSpace(p.row[i])
}

func (p *fieldParser) decimal(i int, name string) decimal.NullDecimal {
	v, err := util.ParseDecimal(p.row[i])
	p.fail(i, name, err)
	return v
}

func (p *fieldParser) int(i int, name string) *int {
	v, err := util.ParseInt(p.row[i])
	p.fail(i, name, err)
	return v
}

func (p *fieldParser) id(i int, name string) int64 {
	v, err := util.ParseID(p.row[i])
	p.fail(i, name, err)
	return v
}

func (p *fieldParser) fail(i int, name string, err error) {
	if err == nil || p.err != nil {
		return
	}
	col := string(rune('A' + i))
	p.err = fmt.Errorf("row %d column %s (%s): %w", p.rowNo, col, name, err)
}
