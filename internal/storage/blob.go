// Package storage persists the collection snapshot as a single blob, either
// in a JSON file or in a SQLite key-value table.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DataKey is the key the collection snapshot is stored under.
const DataKey = "pubslyData"

// ErrNoBlob is returned by Load when nothing is stored under the key.
var ErrNoBlob = errors.New("no stored data")

// BlobStore loads and saves opaque blobs by key.
type BlobStore interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Close() error
}

// LastSaved reports when key was last saved in b. Stores that do not track
// save times report ErrNoBlob.
func LastSaved(b BlobStore, key string) (time.Time, error) {
	ts, ok := b.(interface {
		UpdatedAt(key string) (time.Time, error)
	})
	if !ok {
		return time.Time{}, ErrNoBlob
	}
	return ts.UpdatedAt(key)
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend rooted at path. For the file backend
// path is a directory; for sqlite it is the database file.
func Open(backend, path string) (BlobStore, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)", backend, BackendFile, BackendSQLite)
	}
}

// FileStore keeps each blob in <dir>/<key>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store inside it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file a key is stored in.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the blob for key.
func (s *FileStore) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBlob
		}
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the blob for key. The write goes to a temporary file that
// is renamed into place, so a crash never leaves a truncated blob.
func (s *FileStore) Save(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns the modification time of the blob file for key.
func (s *FileStore) UpdatedAt(key string) (time.Time, error) {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNoBlob
		}
		return time.Time{}, fmt.Errorf("checking %s: %w", key, err)
	}
	return info.ModTime(), nil
}

// Close is a no-op for files.
func (s *FileStore) Close() error {
	return nil
}
