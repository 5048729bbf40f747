package catalog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal"
	"catalogsync/internal/progress"
)

const (
	maxPurgePages     = 1000
	uncategorizedSlug = "uncategorized"
)

type CategoryDeleter interface {
	CategoryLister
	DeleteCategory(ctx context.Context, id int64) error
}

// DeleteCategories force-deletes every remote category except the
// platform's default one. It returns the number deleted.
func DeleteCategories(ctx context.Context, api CategoryDeleter, tracker progress.Tracker) (int, error) {
	var all []internal.Category
	for page := 1; page <= maxPurgePages; page++ {
		res, err := api.ListCategories(ctx, page, PageSize)
		if err != nil {
			return 0, fmt.Errorf("list categories page %d: %w", page, err)
		}
		if len(res.Categories) == 0 {
			break
		}
		all = append(all, res.Categories...)
	}
	log.Infof("deleting %d categories", len(all))

	tracker.Start("deleting categories", len(all))
	defer tracker.Stop()

	deleted := 0
	for _, c := range all {
		tracker.Increment()
		if c.Slug == uncategorizedSlug {
			log.WithField("id", c.ID).Debug("keeping default category")
			continue
		}
		if err := api.DeleteCategory(ctx, c.ID); err != nil {
			return deleted, fmt.Errorf("delete category %d %q: %w", c.ID, c.Name, err)
		}
		deleted++
		log.WithFields(log.Fields{"id": c.ID, "name": c.Name}).Info("category deleted")
	}
	return deleted, nil
}
