package filestore

import (
	"context"
	"io"
	"path"
	"strings"

	"catalogsync/internal"
)

// Store is the remote file store holding product images. All paths are
// relative to the store root and use forward slashes.
type Store interface {
	// List walks the root recursively, returning files and directories.
	List(ctx context.Context) ([]internal.RemoteFile, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	// Move renames a file, creating missing parent directories of the target.
	Move(ctx context.Context, from, to string) error
	Close() error
}

// Under reports whether name is dir itself or lives below it.
func Under(name, dir string) bool {
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" {
		return false
	}
	name = strings.Trim(path.Clean("/"+name), "/")
	return name == dir || strings.HasPrefix(name, dir+"/")
}

// Rel converts an absolute remote path into one relative to root.
func Rel(root, full string) string {
	root = path.Clean("/" + root)
	full = path.Clean("/" + full)
	if root == "/" {
		return strings.TrimPrefix(full, "/")
	}
	return strings.TrimPrefix(strings.TrimPrefix(full, root), "/")
}
