package media

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"

	"catalogsync/internal"
	"catalogsync/internal/config"
	"catalogsync/internal/filestore"
	"catalogsync/internal/progress"
)

type ProductAPI interface {
	ListProductsBySKU(ctx context.Context, sku string) ([]internal.Product, error)
	UpdateProduct(ctx context.Context, id int64, payload map[string]any) (internal.Product, error)
	UploadMedia(ctx context.Context, filename, contentType string, body []byte) (internal.Media, error)
}

type Journal interface {
	RecordMediaEvent(e internal.MediaEvent) error
}

type SyncResult struct {
	Attached  int
	Failed    int
	NotFound  int
	Ambiguous int
}

func (r SyncResult) Counts() map[string]int {
	return map[string]int{
		"attached":  r.Attached,
		"failed":    r.Failed,
		"notfound":  r.NotFound,
		"ambiguous": r.Ambiguous,
	}
}

// SyncService attaches images on the file store to the products whose SKU
// their names carry. Files are handled one at a time in listing order.
//
// Upload, product update and source removal are not atomic: a failure after
// the upload leaves the media in the library while the file goes to the
// error dir. Those uploads are journaled with their media id.
type SyncService struct {
	store    filestore.Store
	api      ProductAPI
	journal  Journal
	cfg      config.Config
	progress progress.Tracker
}

func NewSyncService(store filestore.Store, api ProductAPI, journal Journal, cfg config.Config) *SyncService {
	return &SyncService{store: store, api: api, journal: journal, cfg: cfg, progress: progress.Nop{}}
}

func (s *SyncService) WithProgress(t progress.Tracker) *SyncService {
	s.progress = t
	return s
}

func (s *SyncService) Sync(ctx context.Context, runID string) (SyncResult, error) {
	var res SyncResult

	files, err := s.pending(ctx)
	if err != nil {
		return res, err
	}
	log.Infof("%d files to process", len(files))

	s.progress.Start("ftp sync", len(files))
	defer s.progress.Stop()

	for _, f := range files {
		s.progress.Increment()
		if err := ctx.Err(); err != nil {
			return res, err
		}

		event := internal.MediaEvent{RunID: runID, Path: f.Path, SKU: DeriveSKU(f.Path)}
		entry := log.WithFields(log.Fields{"file": f.Path, "sku": event.SKU})

		var matches []internal.Product
		if event.SKU != "" {
			matches, err = s.api.ListProductsBySKU(ctx, event.SKU)
			if err != nil {
				return res, fmt.Errorf("list products for sku %q: %w", event.SKU, err)
			}
		}

		switch len(matches) {
		case 0:
			if err := s.relocate(ctx, f.Path, s.cfg.FTPNotFoundDir); err != nil {
				return res, err
			}
			event.Outcome = internal.MediaNotFound
			res.NotFound++
			entry.Info("no product for sku, moved to not-found")
		case 1:
			product := matches[0]
			event.ProductID = product.ID()
			media, err := s.attach(ctx, f.Path, product)
			event.MediaID = media.ID
			event.SourceURL = media.SourceURL
			if err != nil {
				entry.WithError(err).Error("attach failed, moving to error dir")
				if err := s.relocate(ctx, f.Path, s.cfg.FTPErrorDir); err != nil {
					return res, err
				}
				event.Outcome = internal.MediaError
				event.Error = err.Error()
				res.Failed++
			} else {
				event.Outcome = internal.MediaAttached
				res.Attached++
				entry.WithField("product", product.ID()).Info("image attached")
			}
		default:
			event.Outcome = internal.MediaAmbiguous
			res.Ambiguous++
			entry.Warnf("%d products share this sku, skipping", len(matches))
		}

		if err := s.journal.RecordMediaEvent(event); err != nil {
			return res, err
		}
	}
	return res, nil
}

// attach uploads the file, appends it to the product images and removes the
// source. The returned media is set once the upload succeeded, even when a
// later step fails.
func (s *SyncService) attach(ctx context.Context, name string, product internal.Product) (internal.Media, error) {
	blob, err := s.read(ctx, name)
	if err != nil {
		return internal.Media{}, err
	}

	contentType := mimetype.Detect(blob).String()
	media, err := s.api.UploadMedia(ctx, path.Base(name), contentType, blob)
	if err != nil {
		return internal.Media{}, fmt.Errorf("upload media: %w", err)
	}

	images := append(product.Images(), map[string]any{"src": media.SourceURL})
	if _, err := s.api.UpdateProduct(ctx, product.ID(), map[string]any{"images": images}); err != nil {
		return media, fmt.Errorf("update product %d: %w", product.ID(), err)
	}

	if s.cfg.FTPProcessedDir != "" {
		if err := s.store.Move(ctx, name, path.Join(s.cfg.FTPProcessedDir, name)); err != nil {
			return media, fmt.Errorf("move to processed: %w", err)
		}
		return media, nil
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return media, fmt.Errorf("delete source: %w", err)
	}
	return media, nil
}

func (s *SyncService) read(ctx context.Context, name string) ([]byte, error) {
	rc, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	blob, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return blob, nil
}

func (s *SyncService) relocate(ctx context.Context, name, dir string) error {
	target := path.Join(dir, name)
	if err := s.store.Move(ctx, name, target); err != nil {
		return fmt.Errorf("move %s to %s: %w", name, target, err)
	}
	return nil
}

// pending lists the files to handle, leaving out the routing dirs and
// anything matching FTP_IGNORE.
func (s *SyncService) pending(ctx context.Context) ([]internal.RemoteFile, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	out := make([]internal.RemoteFile, 0, len(entries))
	for _, f := range entries {
		if f.Type != internal.EntryFile || s.excluded(f.Path) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *SyncService) excluded(name string) bool {
	for _, dir := range []string{s.cfg.FTPErrorDir, s.cfg.FTPNotFoundDir, s.cfg.FTPProcessedDir} {
		if filestore.Under(name, dir) {
			return true
		}
	}
	for _, pattern := range s.cfg.FTPIgnore {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			log.WithField("pattern", pattern).WithError(err).Debug("bad ignore pattern")
			continue
		}
		if matched {
			log.WithFields(log.Fields{"file": name, "pattern": pattern}).Debug("file ignored by pattern")
			return true
		}
	}
	return false
}
