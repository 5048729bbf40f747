package products

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalogsync/internal"
	"catalogsync/internal/config"
	"catalogsync/internal/sheets/xlsx"
)

const fullRange = "KOLSTAD!A2:X3000"

func testConfig() config.Config {
	return config.Config{GoogleSheetName: "KOLSTAD", GoogleSheetMaxRow: 3000}
}

func TestSyncCreatesAndUpdates(t *testing.T) {
	sheet := newMemSheet(fullRange,
		row(map[string]string{"B": "YES", "E": "Outdoor>Grills", "F": "New grill", "I": "GR-1", "M": "199"}),
		row(map[string]string{"B": "YES", "C": "812", "D": "YES", "E": "Tools", "F": "Wrench", "I": "AB/12"}),
		row(map[string]string{"B": "NO", "F": "Ignored"}),
		row(nil),
		row(map[string]string{"B": "YES", "M": "n/a"}),
	)
	api := newFakeAPI(900)
	api.products[812] = internal.Product{"id": 812, "sku": "AB/12", "tags": []any{}, "images": []any{}}
	journal := &memJournal{}

	res, err := NewSyncService(sheet, api, journal, testConfig()).Sync(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Created: 1, Updated: 1, Skipped: 1}, res)

	require.Len(t, api.creates, 1)
	assert.Equal(t, "New grill", api.creates[0]["name"])
	assert.Equal(t, "199", api.creates[0]["regular_price"])

	update := api.updates[812]
	require.NotNil(t, update)
	assert.Equal(t, "Wrench", update["name"])
	assert.Equal(t, "AB/12", update["sku"])
	assert.NotContains(t, update, "tags")

	assert.Equal(t, map[string]string{
		"KOLSTAD!C2": "900",
		"KOLSTAD!D2": "NO",
		"KOLSTAD!W2": "2026-10-01T09:00:00",
		"KOLSTAD!X2": "https://shop.test/p/900",
		"KOLSTAD!C3": "812",
		"KOLSTAD!D3": "NO",
		"KOLSTAD!W3": "2026-10-02T09:00:00",
		"KOLSTAD!X3": "https://shop.test/p/812",
	}, sheet.writes)
	assert.Equal(t, []string{"KOLSTAD!C2", "KOLSTAD!D2", "KOLSTAD!W2", "KOLSTAD!X2"}, sheet.order[:4])

	require.Len(t, journal.writes, 2)
	assert.Equal(t, internal.ProductWrite{
		RunID: "run-1", RowNo: 2, SKU: "GR-1", RemoteID: 900, Action: internal.ProductCreated, Permalink: "https://shop.test/p/900",
	}, journal.writes[0])
	assert.Equal(t, internal.ProductUpdated, journal.writes[1].Action)
}

func TestSyncCreatesWhenUpdateFlagOff(t *testing.T) {
	sheet := newMemSheet(fullRange,
		row(map[string]string{"B": "YES", "C": "812", "D": "NO", "F": "Wrench"}),
	)
	api := newFakeAPI(950)

	res, err := NewSyncService(sheet, api, &memJournal{}, testConfig()).Sync(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Empty(t, api.updates)
	assert.Equal(t, "950", sheet.writes["KOLSTAD!C2"])
}

func TestSyncAbortsOnAPIError(t *testing.T) {
	sheet := newMemSheet(fullRange,
		row(map[string]string{"B": "YES", "C": "812", "D": "YES"}),
		row(map[string]string{"B": "YES"}),
	)
	api := newFakeAPI(1)
	api.failGet = errors.New("status=500")

	_, err := NewSyncService(sheet, api, &memJournal{}, testConfig()).Sync(context.Background(), "run-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Empty(t, api.creates)
	assert.Empty(t, sheet.writes)
}

func TestSyncAbortKeepsEarlierWriteBacksInWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("KOLSTAD")
	require.NoError(t, err)
	for cell, v := range map[string]string{
		"B2": "YES", "F2": "First", "I2": "S1",
		"B3": "YES", "F3": "Second", "I3": "S2",
	} {
		require.NoError(t, f.SetCellStr("KOLSTAD", cell, v))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := xlsx.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })

	api := newFakeAPI(900)
	api.maxCreates = 1

	res, err := NewSyncService(wb, api, &memJournal{}, testConfig()).Sync(context.Background(), "run-abort")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `row 3 sku "S2"`)
	assert.Equal(t, 1, res.Created)

	onDisk, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer onDisk.Close()
	for cell, want := range map[string]string{"C2": "900", "D2": "NO", "X2": "https://shop.test/p/900", "C3": ""} {
		got, err := onDisk.GetCellValue("KOLSTAD", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}
