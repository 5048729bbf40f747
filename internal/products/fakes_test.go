package products

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"catalogsync/internal"
	"catalogsync/internal/catalog"
)

// row builds a 24-cell sheet row (A..X) with the given columns set.
func row(cells map[string]string) []string {
	out := make([]string, 24)
	for col, v := range cells {
		out[col[0]-'A'] = v
	}
	return out
}

type memSheet struct {
	rows   map[string][][]string
	writes map[string]string
	order  []string
}

func newMemSheet(a1 string, rows ...[]string) *memSheet {
	return &memSheet{rows: map[string][][]string{a1: rows}, writes: map[string]string{}}
}

func (s *memSheet) Read(_ context.Context, a1 string) ([][]string, error) {
	rows, ok := s.rows[a1]
	if !ok {
		return nil, fmt.Errorf("unexpected range %s", a1)
	}
	return rows, nil
}

func (s *memSheet) Write(_ context.Context, cell, value string) error {
	s.writes[cell] = value
	s.order = append(s.order, cell)
	return nil
}

func (s *memSheet) Close() error { return nil }

type fakeAPI struct {
	products map[int64]internal.Product
	nextID   int64
	creates  []map[string]any
	updates  map[int64]map[string]any
	failGet  error
	// maxCreates makes every create past this many fail; 0 disables it.
	maxCreates int
}

func newFakeAPI(nextID int64) *fakeAPI {
	return &fakeAPI{products: map[int64]internal.Product{}, nextID: nextID, updates: map[int64]map[string]any{}}
}

func (f *fakeAPI) GetProduct(_ context.Context, id int64) (internal.Product, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: status=404", id)
	}
	return maps.Clone(p), nil
}

func (f *fakeAPI) CreateProduct(_ context.Context, payload map[string]any) (internal.Product, error) {
	if f.maxCreates > 0 && len(f.creates) >= f.maxCreates {
		return nil, errors.New("status=500")
	}
	f.creates = append(f.creates, payload)
	id := f.nextID
	f.nextID++
	p := internal.Product(maps.Clone(payload))
	p["id"] = id
	p["date_modified"] = "2026-10-01T09:00:00"
	p["permalink"] = fmt.Sprintf("https://shop.test/p/%d", id)
	f.products[id] = p
	return p, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, id int64, payload map[string]any) (internal.Product, error) {
	f.updates[id] = payload
	p := internal.Product(maps.Clone(payload))
	p["id"] = id
	p["date_modified"] = "2026-10-02T09:00:00"
	p["permalink"] = fmt.Sprintf("https://shop.test/p/%d", id)
	f.products[id] = p
	return p, nil
}

type memJournal struct {
	writes []internal.ProductWrite
}

func (j *memJournal) RecordProductWrite(w internal.ProductWrite) error {
	j.writes = append(j.writes, w)
	return nil
}

type memCategories struct {
	categories []internal.Category
	nextID     int64
}

func (m *memCategories) ListCategories(_ context.Context, page, perPage int) (internal.CategoryPage, error) {
	if page > 1 {
		return internal.CategoryPage{TotalPages: 1}, nil
	}
	return internal.CategoryPage{Categories: m.categories, TotalPages: 1}, nil
}

func (m *memCategories) CreateCategory(_ context.Context, name string, parent int64) (internal.Category, error) {
	c := internal.Category{ID: m.nextID, Name: catalog.EscapeName(name), Parent: parent}
	m.nextID++
	m.categories = append(m.categories, c)
	return c, nil
}
