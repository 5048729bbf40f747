package catalog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal/config"
	"catalogsync/internal/sheets"
)

const categoryColumn = "E"

// SyncService reconciles the category paths in the sheet's category column
// with the remote category tree.
type SyncService struct {
	sheet sheets.Sheet
	store CategoryStore
	cfg   config.Config
}

func NewSyncService(sheet sheets.Sheet, store CategoryStore, cfg config.Config) *SyncService {
	return &SyncService{sheet: sheet, store: store, cfg: cfg}
}

// SyncCategories returns the number of categories created.
func (s *SyncService) SyncCategories(ctx context.Context) (int, error) {
	rng := sheets.NewRange(s.cfg.GoogleSheetName, categoryColumn, 2, categoryColumn, s.cfg.GoogleSheetMaxRow)
	rows, err := s.sheet.Read(ctx, rng.String())
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}

	paths := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			paths = append(paths, row[0])
		}
	}

	index, err := BuildIndex(ctx, s.store)
	if err != nil {
		return 0, err
	}
	log.Infof("loaded %d remote categories, reconciling %d paths", index.Len(), len(paths))

	builder := NewTreeBuilder(s.store, index)
	if err := builder.EnsureAll(ctx, paths); err != nil {
		return builder.Created(), err
	}
	return builder.Created(), nil
}
