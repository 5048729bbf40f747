package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal"
	"catalogsync/internal/progress"
)

func TestDeleteCategoriesSkipsDefault(t *testing.T) {
	seed := []internal.Category{{ID: 15, Name: "Uncategorized", Slug: "uncategorized"}}
	for i := 1; i <= 120; i++ {
		seed = append(seed, internal.Category{ID: int64(100 + i), Name: fmt.Sprintf("c%d", i), Slug: fmt.Sprintf("c%d", i)})
	}
	store := newFakeCategoryStore(1, seed...)

	deleted, err := DeleteCategories(context.Background(), store, progress.Nop{})
	require.NoError(t, err)
	assert.Equal(t, 120, deleted)
	assert.NotContains(t, store.deleted, int64(15))
	assert.Equal(t, []int{1, 2, 3}, store.listCalls)
}
