// Package fs provides file-based payload storage for resources.
package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/doctext"
)

// Ensure Store implements doctext.FileStore at compile time.
var _ doctext.FileStore = (*Store)(nil)

// Store keeps resource payloads on disk, sharded by ID prefix so no single
// directory accumulates every file. Writes go to a temp file first and are
// renamed into place, so readers never see a partial payload.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// resourcePath shards a resource ID into baseDir/xxx/yyy/rest.
// IDs shorter than the shard prefixes land directly under baseDir.
func (s *Store) resourcePath(id string) string {
	if len(id) <= 6 {
		return filepath.Join(s.baseDir, id)
	}
	return filepath.Join(s.baseDir, id[:3], id[3:6], id[6:])
}

// Path returns the local path of the resource's payload.
// Returns ENOTFOUND if no payload has been stored.
func (s *Store) Path(id string) (string, error) {
	path := s.resourcePath(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", doctext.Errorf(doctext.ENOTFOUND, "no payload stored for resource %q", id)
		}
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot stat payload for %q: %v", id, err)
	}
	return path, nil
}

// Save stores a payload for the resource and returns its path.
// An existing payload is replaced.
func (s *Store) Save(id string, r io.Reader) (string, error) {
	path := s.resourcePath(id)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot create payload directory: %v", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".payload-*")
	if err != nil {
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot create payload temp file: %v", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot write payload: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot close payload temp file: %v", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", doctext.Errorf(doctext.EINTERNAL, "cannot move payload into place: %v", err)
	}

	return path, nil
}
