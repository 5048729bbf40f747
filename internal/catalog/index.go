package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal"
)

const PageSize = 100

var ErrCategoryNotIndexed = errors.New("category not in index")

type CategoryLister interface {
	ListCategories(ctx context.Context, page, perPage int) (internal.CategoryPage, error)
}

// Index maps category display names to remote ids. Keys are stored the way
// the platform stores names, with "&" escaped as "&amp;".
type Index struct {
	ids map[string]int64
}

// NewIndex seeds an index with names exactly as the platform returns them.
func NewIndex(seed map[string]int64) *Index {
	idx := &Index{ids: make(map[string]int64, len(seed))}
	for name, id := range seed {
		idx.ids[name] = id
	}
	return idx
}

// BuildIndex walks every category page until the reported total is reached.
func BuildIndex(ctx context.Context, lister CategoryLister) (*Index, error) {
	idx := NewIndex(nil)
	for page := 1; ; page++ {
		res, err := lister.ListCategories(ctx, page, PageSize)
		if err != nil {
			return nil, fmt.Errorf("list categories page %d: %w", page, err)
		}
		for _, c := range res.Categories {
			idx.ids[c.Name] = c.ID
		}
		if page >= res.TotalPages {
			break
		}
	}
	log.Debugf("category index built with %d entries", idx.Len())
	return idx, nil
}

func EscapeName(name string) string {
	return strings.ReplaceAll(name, "&", "&amp;")
}

func (i *Index) Lookup(name string) (int64, bool) {
	id, ok := i.ids[EscapeName(name)]
	return id, ok
}

// MustLookup fails with ErrCategoryNotIndexed when name is unknown.
func (i *Index) MustLookup(name string) (int64, error) {
	id, ok := i.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrCategoryNotIndexed, name)
	}
	return id, nil
}

// Add records a category created during this run under its escaped name.
func (i *Index) Add(name string, id int64) {
	i.ids[EscapeName(name)] = id
}

func (i *Index) Len() int {
	return len(i.ids)
}
