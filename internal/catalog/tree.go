package catalog

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal"
)

type CategoryStore interface {
	CategoryLister
	CreateCategory(ctx context.Context, name string, parent int64) (internal.Category, error)
}

// TreeBuilder creates whatever part of a category path is missing remotely,
// linking each child to the id of the segment before it.
type TreeBuilder struct {
	store   CategoryStore
	index   *Index
	created int
}

func NewTreeBuilder(store CategoryStore, index *Index) *TreeBuilder {
	return &TreeBuilder{store: store, index: index}
}

func (b *TreeBuilder) Index() *Index { return b.index }

// Created is the number of categories created since the builder was made.
func (b *TreeBuilder) Created() int { return b.created }

// Ensure makes every segment of raw exist. A name already in the index is
// never created again, even if it hangs under a different parent.
func (b *TreeBuilder) Ensure(ctx context.Context, raw string) error {
	segments := SplitPath(raw)
	if len(segments) == 0 {
		return nil
	}

	parent := segments[0]
	if _, ok := b.index.Lookup(parent); !ok {
		if err := b.create(ctx, parent, 0); err != nil {
			return err
		}
	}

	for _, child := range segments[1:] {
		if _, ok := b.index.Lookup(child); !ok {
			parentID, err := b.index.MustLookup(parent)
			if err != nil {
				return err
			}
			if err := b.create(ctx, child, parentID); err != nil {
				return err
			}
		}
		parent = child
	}
	return nil
}

func (b *TreeBuilder) EnsureAll(ctx context.Context, paths []string) error {
	for _, raw := range paths {
		if err := b.Ensure(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

func (b *TreeBuilder) create(ctx context.Context, name string, parent int64) error {
	created, err := b.store.CreateCategory(ctx, name, parent)
	if err != nil {
		return fmt.Errorf("create category %q: %w", name, err)
	}
	b.index.Add(name, created.ID)
	b.created++
	log.WithFields(log.Fields{"name": name, "id": created.ID, "parent": parent}).Info("category created")
	return nil
}
