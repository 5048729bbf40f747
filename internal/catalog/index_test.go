package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal"
)

func TestEscapedNameMatches(t *testing.T) {
	idx := NewIndex(map[string]int64{"Tools &amp; Dies": 7})

	id, ok := idx.Lookup("Tools & Dies")
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	_, ok = idx.Lookup("Tools &amp;amp; Dies")
	assert.False(t, ok)
}

func TestMustLookupMissing(t *testing.T) {
	idx := NewIndex(nil)
	_, err := idx.MustLookup("Gas Grills")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCategoryNotIndexed))
	assert.Contains(t, err.Error(), "Gas Grills")
}

func TestBuildIndexWalksAllPages(t *testing.T) {
	seed := make([]internal.Category, 0, 250)
	for i := 1; i <= 250; i++ {
		seed = append(seed, internal.Category{ID: int64(i), Name: fmt.Sprintf("cat-%d", i)})
	}
	store := newFakeCategoryStore(1000, seed...)

	idx, err := BuildIndex(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 250, idx.Len())
	assert.Equal(t, []int{1, 2, 3}, store.listCalls)

	id, ok := idx.Lookup("cat-250")
	require.True(t, ok)
	assert.Equal(t, int64(250), id)
}

func TestBuildIndexEmptyStore(t *testing.T) {
	store := newFakeCategoryStore(1)
	idx, err := BuildIndex(context.Background(), store)
	require.NoError(t, err)
	assert.Zero(t, idx.Len())
	assert.Equal(t, []int{1}, store.listCalls)
}

type failingLister struct{}

func (failingLister) ListCategories(context.Context, int, int) (internal.CategoryPage, error) {
	return internal.CategoryPage{}, errors.New("status=500")
}

func TestBuildIndexPropagatesErrors(t *testing.T) {
	_, err := BuildIndex(context.Background(), failingLister{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 1")
}
