package products

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal"
	"catalogsync/internal/catalog"
	"catalogsync/internal/config"
	"catalogsync/internal/sheets"
)

const uncategorizedSlug = "uncategorized"

type AssignResult struct {
	Applied int
	Skipped int
}

func (r AssignResult) Counts() map[string]int {
	return map[string]int{"applied": r.Applied, "skipped": r.Skipped}
}

// AssignService attaches each row's leaf category, by id, to the product it
// already created. Unlike SyncService it never creates products and never
// sends categories by name.
type AssignService struct {
	sheet      sheets.Sheet
	api        ProductAPI
	categories catalog.CategoryLister
	journal    Journal
	cfg        config.Config
}

func NewAssignService(sheet sheets.Sheet, api ProductAPI, categories catalog.CategoryLister, journal Journal, cfg config.Config) *AssignService {
	return &AssignService{sheet: sheet, api: api, categories: categories, journal: journal, cfg: cfg}
}

func (s *AssignService) ApplyLastCategory(ctx context.Context, runID string) (AssignResult, error) {
	var res AssignResult

	rows, err := readRecords(ctx, s.sheet, s.cfg)
	if err != nil {
		return res, err
	}
	index, err := catalog.BuildIndex(ctx, s.categories)
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
		leaf := rec.LastCategory()
		if rec.RemoteID == 0 || leaf == "" {
			log.WithFields(log.Fields{"row": rowNo, "sku": rec.SKU}).Warn("row has no remote id or category, skipping")
			res.Skipped++
			continue
		}

		leafID, err := index.MustLookup(leaf)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", rowNo, err)
		}

		product, err := s.api.GetProduct(ctx, rec.RemoteID)
		if err != nil {
			return res, fmt.Errorf("row %d get product %d: %w", rowNo, rec.RemoteID, err)
		}
		product["categories"] = withCategory(product.Categories(), leafID)

		updated, err := s.api.UpdateProduct(ctx, rec.RemoteID, product)
		if err != nil {
			return res, fmt.Errorf("row %d update product %d: %w", rowNo, rec.RemoteID, err)
		}
		res.Applied++

		if err := s.journal.RecordProductWrite(internal.ProductWrite{
			RunID:     runID,
			RowNo:     rowNo,
			SKU:       updated.SKU(),
			RemoteID:  rec.RemoteID,
			Action:    internal.ProductCategoryApplied,
			Permalink: updated.Permalink(),
		}); err != nil {
			return res, err
		}
		log.WithFields(log.Fields{"row": rowNo, "sku": updated.SKU(), "category": leaf, "categoryId": leafID}).Info("category applied")
	}
	return res, nil
}

// withCategory drops the default placeholder and appends id.
func withCategory(current []map[string]any, id int64) []map[string]any {
	out := make([]map[string]any, 0, len(current)+1)
	for _, c := range current {
		if slug, _ := c["slug"].(string); slug == uncategorizedSlug {
			continue
		}
		out = append(out, c)
	}
	return append(out, map[string]any{"id": id})
}
