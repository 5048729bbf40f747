package internal

import (
	"encoding/json"
	"strconv"
)

type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int64  `json:"parent"`
}

type CategoryPage struct {
	Categories []Category
	TotalPages int
}

type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// Product is the remote product resource as returned by the API. It is kept
// untyped so a read-modify-write round trip preserves fields we never touch.
type Product map[string]any

func (p Product) ID() int64 {
	id, _ := toInt64(p["id"])
	return id
}

func (p Product) SKU() string {
	s, _ := p["sku"].(string)
	return s
}

func (p Product) DateModified() string {
	s, _ := p["date_modified"].(string)
	return s
}

func (p Product) Permalink() string {
	s, _ := p["permalink"].(string)
	return s
}

func (p Product) Categories() []map[string]any {
	return objectList(p["categories"])
}

func (p Product) Images() []map[string]any {
	return objectList(p["images"])
}

func objectList(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]map[string]any); ok {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// RemoteFile is an entry on the file store. Path is relative to the store root.
type RemoteFile struct {
	Path string
	Type EntryType
	Size int64
}

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

type MediaOutcome string

const (
	MediaAttached  MediaOutcome = "attached"
	MediaError     MediaOutcome = "error"
	MediaNotFound  MediaOutcome = "notfound"
	MediaAmbiguous MediaOutcome = "ambiguous"
)

type ProductAction string

const (
	ProductCreated         ProductAction = "created"
	ProductUpdated         ProductAction = "updated"
	ProductCategoryApplied ProductAction = "category_applied"
)

type RunRow struct {
	ID         string
	Job        string
	Status     RunStatus
	StartedAt  string
	FinishedAt *string
	Counts     map[string]int
	Error      *string
}

type ProductWrite struct {
	RunID     string
	RowNo     int
	SKU       string
	RemoteID  int64
	Action    ProductAction
	Permalink string
}

type MediaEvent struct {
	RunID     string
	Path      string
	SKU       string
	ProductID int64
	MediaID   int64
	SourceURL string
	Outcome   MediaOutcome
	Error     string
	CreatedAt string
}
