package reportstore

import (
	"context"
	"io"
	"path"
	"strings"
)

// Object describes a stored file.
type Object struct {
	Path        string
	Size        int64
	ContentType string
}

// Entry is one item of a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage is a flat key/value file store.
type Storage interface {
	// Put stores body at p, replacing any existing file.
	Put(ctx context.Context, p string, body io.Reader, contentType string) (*Object, error)
	// Open returns the content stored at p.
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	// Delete removes a single file.
	Delete(ctx context.Context, p string) error
	// Exists reports whether a file exists at p.
	Exists(ctx context.Context, p string) bool
	// List returns the entries of a directory, non-recursively.
	List(ctx context.Context, dir string) ([]Entry, error)
	// URL returns where a stored file can be fetched.
	URL(p string) string
}

// cleanKey normalises a slash separated storage key. Keys that try to leave
// the storage root are rejected.
func cleanKey(p string) (string, error) {
	if strings.Contains(p, "..") {
		return "", ErrInvalidPath
	}
	p = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	return p, nil
}
