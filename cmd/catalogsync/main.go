package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"catalogsync/internal/app"
	"catalogsync/internal/catalog"
	"catalogsync/internal/config"
	"catalogsync/internal/products"
	"catalogsync/internal/progress"
	"catalogsync/internal/sheets"
	"catalogsync/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)
	app.SetupLogging(cfg.LogLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "delete-categories":
		api := newAPI(cfg)
		err := db.Track(cmd, func(string) (map[string]int, error) {
			deleted, err := catalog.DeleteCategories(ctx, api, progress.NewBar())
			fmt.Printf("deleted %d categories\n", deleted)
			return map[string]int{"deleted": deleted}, err
		})
		mustAll(err, api.Close())
	case "sync-categories":
		api := newAPI(cfg)
		sheet := openSheet(ctx, cfg)
		err := db.Track(cmd, func(string) (map[string]int, error) {
			created, err := catalog.NewSyncService(sheet, api, cfg).SyncCategories(ctx)
			fmt.Printf("category sync complete: %d created\n", created)
			return map[string]int{"created": created}, err
		})
		mustAll(err, sheet.Close(), api.Close())
	case "category-sync":
		api := newAPI(cfg)
		sheet := openSheet(ctx, cfg)
		err := db.Track(cmd, func(runID string) (map[string]int, error) {
			res, err := products.NewAssignService(sheet, api, api, db, cfg).ApplyLastCategory(ctx, runID)
			fmt.Printf("categories applied=%d skipped=%d\n", res.Applied, res.Skipped)
			return res.Counts(), err
		})
		mustAll(err, sheet.Close(), api.Close())
	case "google-sync":
		api := newAPI(cfg)
		sheet := openSheet(ctx, cfg)
		err := db.Track(cmd, func(runID string) (map[string]int, error) {
			res, err := products.NewSyncService(sheet, api, db, cfg).Sync(ctx, runID)
			fmt.Printf("product sync complete created=%d updated=%d skipped=%d\n", res.Created, res.Updated, res.Skipped)
			return res.Counts(), err
		})
		mustAll(err, sheet.Close(), api.Close())
	case "ftp-sync":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		root := fs.String("root", cfg.FTPPath, "remote root to scan")
		_ = fs.Parse(os.Args[2:])
		log.Infof("ftp sync started root=%s driver=%s", *root, cfg.FileStoreDriver)
		api := newAPI(cfg)
		runID, err := app.RunFTPSync(ctx, db, api, cfg, *root, progress.NewBar())
		mustAll(err, api.Close())
		fmt.Printf("ftp sync done run=%s\n", runID)
	case "karmak-sync":
		must(db.Track(cmd, func(string) (map[string]int, error) {
			log.Info("karmak sync started")
			log.Info("karmak sync finished")
			return nil, nil
		}))
	case "media-orphans":
		orphans, err := db.ListOrphanedMedia()
		must(err)
		for _, o := range orphans {
			fmt.Printf("%s\tmedia=%d\tproduct=%d\t%s\t%s\n", o.Path, o.MediaID, o.ProductID, o.SourceURL, o.Error)
		}
		fmt.Printf("%d orphaned uploads\n", len(orphans))
	case "status":
		for _, job := range jobs {
			last, err := db.GetMetadata("job." + job + ".last_success")
			must(err)
			when := "never"
			if last != nil {
				when = *last
			}
			fmt.Printf("%-18s last success: %s\n", job, when)
		}
	case "export:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.String("run", "", "run id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*runID) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--run and --out are required"))
		}
		must(app.ExportRun(db, *runID, *out))
		fmt.Printf("exported run %s to %s\n", *runID, *out)
	default:
		usage()
		os.Exit(1)
	}
}

var jobs = []string{"delete-categories", "sync-categories", "category-sync", "google-sync", "ftp-sync", "karmak-sync"}

func newAPI(cfg config.Config) *catalog.Client {
	api, err := catalog.NewClient(cfg)
	must(err)
	return api
}

func openSheet(ctx context.Context, cfg config.Config) sheets.Sheet {
	sheet, err := app.OpenSheet(ctx, cfg)
	must(err)
	return sheet
}

func usage() {
	fmt.Println("usage: catalogsync <command>")
	fmt.Println("commands:")
	fmt.Println("  delete-categories")
	fmt.Println("  sync-categories")
	fmt.Println("  category-sync")
	fmt.Println("  google-sync")
	fmt.Println("  ftp-sync [--root=/path]")
	fmt.Println("  karmak-sync")
	fmt.Println("  media-orphans")
	fmt.Println("  status")
	fmt.Println("  export:run --run=<id> --out=./out/run.xlsx")
}

// mustAll joins the job error with the close errors that follow it.
func mustAll(errs ...error) {
	must(errors.Join(errs...))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
