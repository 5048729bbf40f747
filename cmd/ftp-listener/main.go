package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal/app"
	"catalogsync/internal/catalog"
	"catalogsync/internal/config"
	"catalogsync/internal/listener"
	"catalogsync/internal/progress"
	"catalogsync/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	app.SetupLogging(cfg.LogLevel)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	api, err := catalog.NewClient(cfg)
	must(err)
	defer api.Close()

	svc := listener.NewService("ftp-sync", cfg, func(ctx context.Context) error {
		runID, err := app.RunFTPSync(ctx, db, api, cfg, cfg.FTPPath, progress.Nop{})
		if err != nil {
			return err
		}
		if !cfg.ListenerAutoExport {
			return nil
		}
		out := app.RunExportPath(cfg, "ftp-sync", runID)
		if err := app.ExportRun(db, runID, out); err != nil {
			return err
		}
		log.Infof("run %s exported to %s", runID, out)
		return nil
	})
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
