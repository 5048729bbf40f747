package products

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal"
	"catalogsync/internal/config"
	"catalogsync/internal/sheets"
)

const (
	firstDataRow = 2
	lastColumn   = "X"

	remoteIDColumn     = "C"
	updateFlagColumn   = "D"
	modifiedDateColumn = "W"
	permalinkColumn    = "X"

	flagNo = "NO"
)

type ProductAPI interface {
	GetProduct(ctx context.Context, id int64) (internal.Product, error)
	CreateProduct(ctx context.Context, payload map[string]any) (internal.Product, error)
	UpdateProduct(ctx context.Context, id int64, payload map[string]any) (internal.Product, error)
}

type Journal interface {
	RecordProductWrite(w internal.ProductWrite) error
}

type SyncResult struct {
	Created int
	Updated int
	Skipped int
}

func (r SyncResult) Counts() map[string]int {
	return map[string]int{"created": r.Created, "updated": r.Updated, "skipped": r.Skipped}
}

// SyncService pushes importable sheet rows to the shop and writes the
// resulting id, flag, timestamp and permalink back to the row.
type SyncService struct {
	sheet   sheets.Sheet
	api     ProductAPI
	journal Journal
	cfg     config.Config
}

func NewSyncService(sheet sheets.Sheet, api ProductAPI, journal Journal, cfg config.Config) *SyncService {
	return &SyncService{sheet: sheet, api: api, journal: journal, cfg: cfg}
}

func (s *SyncService) Sync(ctx context.Context, runID string) (SyncResult, error) {
	var res SyncResult

	rows, err := readRecords(ctx, s.sheet, s.cfg)
	if err != nil {
		return res, err
	}

	for i, row := range rows {
		rowNo := i + firstDataRow
		if blank(row) {
			continue
		}
		rec, err := ParseRecord(row, rowNo)
		if err != nil {
			log.WithError(err).Warn("skipping row")
			res.Skipped++
			continue
		}
		if !rec.ShouldImport() {
			continue
		}

		product, action, err := s.push(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("row %d sku %q: %w", rowNo, rec.SKU, err)
		}
		if action == internal.ProductCreated {
			res.Created++
		} else {
			res.Updated++
		}

		if err := s.writeBack(ctx, rowNo, product); err != nil {
			return res, err
		}
		if err := s.journal.RecordProductWrite(internal.ProductWrite{
			RunID:     runID,
			RowNo:     rowNo,
			SKU:       rec.SKU,
			RemoteID:  product.ID(),
			Action:    action,
			Permalink: product.Permalink(),
		}); err != nil {
			return res, err
		}
		log.WithFields(log.Fields{"row": rowNo, "sku": rec.SKU, "id": product.ID(), "action": action}).Info("product synced")
	}
	return res, nil
}

func (s *SyncService) push(ctx context.Context, rec Record) (internal.Product, internal.ProductAction, error) {
	if rec.RemoteID != 0 && rec.ShouldUpdate() {
		existing, err := s.api.GetProduct(ctx, rec.RemoteID)
		if err != nil {
			return nil, "", fmt.Errorf("get product %d: %w", rec.RemoteID, err)
		}
		updated, err := s.api.UpdateProduct(ctx, rec.RemoteID, rec.Payload(existing))
		if err != nil {
			return nil, "", fmt.Errorf("update product %d: %w", rec.RemoteID, err)
		}
		return updated, internal.ProductUpdated, nil
	}

	created, err := s.api.CreateProduct(ctx, rec.Payload(nil))
	if err != nil {
		return nil, "", fmt.Errorf("create product: %w", err)
	}
	return created, internal.ProductCreated, nil
}

func (s *SyncService) writeBack(ctx context.Context, rowNo int, product internal.Product) error {
	cells := []struct{ col, value string }{
		{remoteIDColumn, strconv.FormatInt(product.ID(), 10)},
		{updateFlagColumn, flagNo},
		{modifiedDateColumn, product.DateModified()},
		{permalinkColumn, product.Permalink()},
	}
	for _, c := range cells {
		cell := sheets.Cell(s.cfg.GoogleSheetName, c.col, rowNo)
		if err := s.sheet.Write(ctx, cell, c.value); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
	}
	return nil
}

func readRecords(ctx context.Context, sheet sheets.Sheet, cfg config.Config) ([][]string, error) {
	rng := sheets.NewRange(cfg.GoogleSheetName, "A", firstDataRow, lastColumn, cfg.GoogleSheetMaxRow)
	rows, err := sheet.Read(ctx, rng.String())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return rows, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
