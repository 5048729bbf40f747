package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal/catalog"
	"catalogsync/internal/config"
	"catalogsync/internal/filestore"
	s3store "catalogsync/internal/filestore/s3"
	sftpstore "catalogsync/internal/filestore/sftp"
	"catalogsync/internal/media"
	"catalogsync/internal/progress"
	"catalogsync/internal/report"
	"catalogsync/internal/sheets"
	"catalogsync/internal/sheets/google"
	"catalogsync/internal/sheets/xlsx"
	"catalogsync/internal/storage"
)

func SetupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

func OpenSheet(ctx context.Context, cfg config.Config) (sheets.Sheet, error) {
	switch cfg.SheetBackend {
	case "google":
		return google.NewSheet(ctx, cfg)
	case "xlsx":
		return xlsx.Open(cfg.SheetXLSXPath)
	default:
		return nil, fmt.Errorf("unsupported sheet backend: %s", cfg.SheetBackend)
	}
}

func OpenStore(ctx context.Context, cfg config.Config, root string) (filestore.Store, error) {
	switch cfg.FileStoreDriver {
	case "sftp":
		return sftpstore.NewStore(cfg, root)
	case "s3":
		return s3store.NewStore(ctx, cfg, root)
	default:
		return nil, fmt.Errorf("unsupported file store driver: %s", cfg.FileStoreDriver)
	}
}

// RunFTPSync runs one journaled ftp-sync pass over root and returns its
// run id. The store is opened for the pass and closed after it.
func RunFTPSync(ctx context.Context, db *storage.DB, api *catalog.Client, cfg config.Config, root string, tracker progress.Tracker) (string, error) {
	store, err := OpenStore(ctx, cfg, root)
	if err != nil {
		return "", err
	}
	defer store.Close()

	var runID string
	err = db.Track("ftp-sync", func(id string) (map[string]int, error) {
		runID = id
		res, err := media.NewSyncService(store, api, db, cfg).WithProgress(tracker).Sync(ctx, id)
		log.Infof("ftp sync complete attached=%d failed=%d notfound=%d ambiguous=%d",
			res.Attached, res.Failed, res.NotFound, res.Ambiguous)
		return res.Counts(), err
	})
	return runID, err
}

// ExportRun writes the journal of runID to outputPath as xlsx.
func ExportRun(db *storage.DB, runID, outputPath string) error {
	run, err := db.GetRun(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run with id %s", runID)
	}
	writes, err := db.ListProductWrites(runID)
	if err != nil {
		return err
	}
	events, err := db.ListMediaEvents(runID)
	if err != nil {
		return err
	}
	return report.ExportRunToXLSX(*run, writes, events, outputPath)
}

// RunExportPath is where listener cycles drop their run exports.
func RunExportPath(cfg config.Config, job, runID string) string {
	return filepath.Join(cfg.OutputDir, "listener", job+"_"+runID+".xlsx")
}
