package catalog

import (
	"context"
	"sort"

	"catalogsync/internal"
)

type createCall struct {
	Name   string
	Parent int64
}

// fakeCategoryStore serves a fixed category set in pages and assigns ids
// from nextID on create.
type fakeCategoryStore struct {
	categories []internal.Category
	nextID     int64
	created    []createCall
	deleted    []int64
	listCalls  []int
}

func newFakeCategoryStore(nextID int64, seed ...internal.Category) *fakeCategoryStore {
	return &fakeCategoryStore{categories: seed, nextID: nextID}
}

func (f *fakeCategoryStore) ListCategories(_ context.Context, page, perPage int) (internal.CategoryPage, error) {
	f.listCalls = append(f.listCalls, page)
	total := (len(f.categories) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start >= len(f.categories) {
		return internal.CategoryPage{TotalPages: total}, nil
	}
	end := min(start+perPage, len(f.categories))
	return internal.CategoryPage{Categories: f.categories[start:end], TotalPages: total}, nil
}

func (f *fakeCategoryStore) CreateCategory(_ context.Context, name string, parent int64) (internal.Category, error) {
	f.created = append(f.created, createCall{Name: name, Parent: parent})
	c := internal.Category{ID: f.nextID, Name: EscapeName(name), Parent: parent}
	f.nextID++
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCategoryStore) DeleteCategory(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSheet struct {
	rows  map[string][][]string
	reads []string
}

func (s *fakeSheet) Read(_ context.Context, a1 string) ([][]string, error) {
	s.reads = append(s.reads, a1)
	return s.rows[a1], nil
}

func (s *fakeSheet) Write(context.Context, string, string) error { return nil }

func (s *fakeSheet) Close() error { return nil }

func createdNames(calls []createCall) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out
}
