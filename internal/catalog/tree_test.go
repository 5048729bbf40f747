package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal"
)

func TestEnsureCreatesMissingChildren(t *testing.T) {
	store := newFakeCategoryStore(20, internal.Category{ID: 10, Name: "Outdoor"})
	idx, err := BuildIndex(context.Background(), store)
	require.NoError(t, err)

	b := NewTreeBuilder(store, idx)
	require.NoError(t, b.Ensure(context.Background(), "Outdoor>Grills>Gas Grills"))

	require.Equal(t, []createCall{
		{Name: "Grills", Parent: 10},
		{Name: "Gas Grills", Parent: 20},
	}, store.created)
	assert.Equal(t, 2, b.Created())

	leaf, err := idx.MustLookup(Leaf(SplitPath("Outdoor>Grills>Gas Grills")))
	require.NoError(t, err)
	assert.Equal(t, int64(21), leaf)
}

func TestEnsureCreatesTopLevelParent(t *testing.T) {
	store := newFakeCategoryStore(1)
	b := NewTreeBuilder(store, NewIndex(nil))

	require.NoError(t, b.Ensure(context.Background(), "Tools & Dies"))
	require.Equal(t, []createCall{{Name: "Tools & Dies", Parent: 0}}, store.created)

	id, ok := b.Index().Lookup("Tools & Dies")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestEnsureSkipsEscapedExisting(t *testing.T) {
	store := newFakeCategoryStore(50, internal.Category{ID: 7, Name: "Tools &amp; Dies"})
	idx, err := BuildIndex(context.Background(), store)
	require.NoError(t, err)

	b := NewTreeBuilder(store, idx)
	require.NoError(t, b.Ensure(context.Background(), "Tools & Dies > Punches"))
	require.Equal(t, []createCall{{Name: "Punches", Parent: 7}}, store.created)
}

func TestEnsureAllIsIdempotent(t *testing.T) {
	paths := []string{
		"Tools > Hand Tools > Wrenches",
		"Tools > Hand Tools > Pliers",
		"Tools > Power Tools",
		"Outdoor",
		"",
	}
	store := newFakeCategoryStore(100)

	first := NewTreeBuilder(store, NewIndex(nil))
	require.NoError(t, first.EnsureAll(context.Background(), paths))
	assert.Equal(t, 6, first.Created())
	assert.Equal(t, []string{"Hand Tools", "Outdoor", "Pliers", "Power Tools", "Tools", "Wrenches"}, createdNames(store.created))

	idx, err := BuildIndex(context.Background(), store)
	require.NoError(t, err)
	second := NewTreeBuilder(store, idx)
	require.NoError(t, second.EnsureAll(context.Background(), paths))
	assert.Zero(t, second.Created())
	assert.Len(t, store.created, 6)
}

func TestEnsureSingleSegmentHasNoParent(t *testing.T) {
	store := newFakeCategoryStore(5)
	b := NewTreeBuilder(store, NewIndex(nil))
	require.NoError(t, b.Ensure(context.Background(), "  Lighting  "))
	require.Equal(t, []createCall{{Name: "Lighting", Parent: 0}}, store.created)
}
