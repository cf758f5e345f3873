// Package blob provides the opaque asset store the checklist service uses
// for uploaded images. Assets are stored under generated, non-guessable
// filenames and addressed by a retrieval path; the caller records that path
// on the owning item and serves the directory statically.
//
// The interface is intentionally narrow so a remote object store could be
// substituted without touching the services; the default implementation is
// a local directory.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists opaque blobs keyed by generated filename.
//
// Save streams the blob and returns its retrieval path. Delete removes a
// previously stored blob; callers treat deletion as best-effort and swallow
// its errors.
type Store interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(retrievalPath string) error
}

// allowedImageExts is the set of accepted upload extensions (lowercase,
// without the dot).
var allowedImageExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "webp": {}, "gif": {},
}

// AllowedImage reports whether the filename carries an accepted image
// extension.
func AllowedImage(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := allowedImageExts[ext]
	return ok
}

// DiskStore stores blobs as files under Dir and returns retrieval paths of
// the form "<URLPrefix>/<generated name>". Generated names are 128-bit
// random hex plus the original extension, so paths are not enumerable.
type DiskStore struct {
	// Dir is the directory blobs are written to. It must exist.
	Dir string
	// URLPrefix is prepended to the generated filename to form the
	// retrieval path (e.g. "/static/uploads").
	URLPrefix string
}

// NewDiskStore constructs a DiskStore, creating Dir if needed.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &DiskStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Save writes the blob under a freshly generated name and returns its
// retrieval path. The original name contributes only its extension.
func (s *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + name, nil
}

// Delete removes the blob behind a retrieval path previously returned by
// Save. Paths outside the store's prefix are ignored.
func (s *DiskStore) Delete(retrievalPath string) error {
	if retrievalPath == "" || !strings.HasPrefix(retrievalPath, s.URLPrefix+"/") {
		return nil
	}
	// path.Base strips any traversal left in the stored value.
	name := path.Base(retrievalPath)
	err := os.Remove(filepath.Join(s.Dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
