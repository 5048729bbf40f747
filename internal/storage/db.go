package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"catalogsync/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  job TEXT NOT NULL,
  status TEXT NOT NULL,
  countsJson TEXT NOT NULL DEFAULT '{}',
  error TEXT,
  startedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  finishedAt TEXT
);
CREATE INDEX IF NOT EXISTS idx_runs_job ON runs(job);

CREATE TABLE IF NOT EXISTS product_writes (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  rowNo INTEGER NOT NULL,
  sku TEXT,
  remoteId INTEGER NOT NULL,
  action TEXT NOT NULL,
  permalink TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS media_events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  path TEXT NOT NULL,
  sku TEXT NOT NULL,
  productId INTEGER,
  mediaId INTEGER,
  sourceUrl TEXT,
  outcome TEXT NOT NULL,
  error TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_media_events_run ON media_events(runId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) StartRun(job string) (string, error) {
	id := uuid.NewString()
	_, err := d.conn.Exec(`INSERT INTO runs (id, job, status) VALUES (?, ?, ?)`, id, job, string(internal.RunRunning))
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishRun closes a run. A nil runErr marks it succeeded and stamps
// job.<name>.last_success in metadata.
func (d *DB) FinishRun(runID string, counts map[string]int, runErr error) error {
	if counts == nil {
		counts = map[string]int{}
	}
	countsJSON, _ := json.Marshal(counts)

	status := internal.RunSucceeded
	var errText *string
	if runErr != nil {
		status = internal.RunFailed
		msg := runErr.Error()
		errText = &msg
	}

	_, err := d.conn.Exec(`
UPDATE runs SET status = ?, countsJson = ?, error = ?, finishedAt = CURRENT_TIMESTAMP WHERE id = ?
`, string(status), string(countsJSON), errText, runID)
	if err != nil {
		return err
	}
	if runErr != nil {
		return nil
	}

	run, err := d.GetRun(runID)
	if err != nil || run == nil || run.FinishedAt == nil {
		return err
	}
	return d.SetMetadata("job."+run.Job+".last_success", *run.FinishedAt)
}

func (d *DB) GetRun(runID string) (*internal.RunRow, error) {
	var row internal.RunRow
	var status, countsJSON string
	err := d.conn.QueryRow(`
SELECT id, job, status, countsJson, error, startedAt, finishedAt FROM runs WHERE id = ?
`, runID).Scan(&row.ID, &row.Job, &status, &countsJSON, &row.Error, &row.StartedAt, &row.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row.Status = internal.RunStatus(status)
	_ = json.Unmarshal([]byte(countsJSON), &row.Counts)
	return &row, nil
}

func (d *DB) RecordProductWrite(w internal.ProductWrite) error {
	_, err := d.conn.Exec(`
INSERT INTO product_writes (runId, rowNo, sku, remoteId, action, permalink)
VALUES (?, ?, ?, ?, ?, ?)
`, w.RunID, w.RowNo, w.SKU, w.RemoteID, string(w.Action), w.Permalink)
	return err
}

func (d *DB) ListProductWrites(runID string) ([]internal.ProductWrite, error) {
	rows, err := d.conn.Query(`
SELECT runId, rowNo, sku, remoteId, action, permalink
FROM product_writes WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ProductWrite
	for rows.Next() {
		var w internal.ProductWrite
		var action string
		var sku, permalink sql.NullString
		if err := rows.Scan(&w.RunID, &w.RowNo, &sku, &w.RemoteID, &action, &permalink); err != nil {
			return nil, err
		}
		w.SKU = sku.String
		w.Permalink = permalink.String
		w.Action = internal.ProductAction(action)
		out = append(out, w)
	}
	return out, rows.Err()
}

func (d *DB) RecordMediaEvent(e internal.MediaEvent) error {
	_, err := d.conn.Exec(`
INSERT INTO media_events (runId, path, sku, productId, mediaId, sourceUrl, outcome, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, e.RunID, e.Path, e.SKU, nullInt(e.ProductID), nullInt(e.MediaID), nullString(e.SourceURL), string(e.Outcome), nullString(e.Error))
	return err
}

func (d *DB) ListMediaEvents(runID string) ([]internal.MediaEvent, error) {
	return d.queryMediaEvents(`
SELECT runId, path, sku, productId, mediaId, sourceUrl, outcome, error, createdAt
FROM media_events WHERE runId = ? ORDER BY id ASC
`, runID)
}

// ListOrphanedMedia returns uploads that reached the media library but whose
// file was routed to the error location afterwards.
func (d *DB) ListOrphanedMedia() ([]internal.MediaEvent, error) {
	return d.queryMediaEvents(`
SELECT runId, path, sku, productId, mediaId, sourceUrl, outcome, error, createdAt
FROM media_events WHERE outcome = ? AND mediaId IS NOT NULL AND mediaId <> 0 ORDER BY id ASC
`, string(internal.MediaError))
}

func (d *DB) queryMediaEvents(query string, args ...any) ([]internal.MediaEvent, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.MediaEvent
	for rows.Next() {
		var e internal.MediaEvent
		var productID, mediaID sql.NullInt64
		var sourceURL, errText sql.NullString
		var outcome string
		if err := rows.Scan(&e.RunID, &e.Path, &e.SKU, &productID, &mediaID, &sourceURL, &outcome, &errText, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ProductID = productID.Int64
		e.MediaID = mediaID.Int64
		e.SourceURL = sourceURL.String
		e.Error = errText.String
		e.Outcome = internal.MediaOutcome(outcome)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func nullInt(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// Track journals one run of job around fn. fn's error is returned as is and
// also stored on the run.
func (d *DB) Track(job string, fn func(runID string) (map[string]int, error)) error {
	runID, err := d.StartRun(job)
	if err != nil {
		return err
	}
	counts, runErr := fn(runID)
	if err := d.FinishRun(runID, counts, runErr); err != nil && runErr == nil {
		return err
	}
	return runErr
}
