package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openStores(t *testing.T) map[string]BlobStore {
	t.Helper()
	tmpDir := t.TempDir()

	file, err := Open(BackendFile, filepath.Join(tmpDir, "data"))
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	db, err := Open(BackendSQLite, filepath.Join(tmpDir, "db", "pubsly.db"))
	if err != nil {
		t.Fatalf("Open(sqlite) error = %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		db.Close()
	})
	return map[string]BlobStore{"file": file, "sqlite": db}
}

func TestBlobStoreRoundTrip(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(DataKey); !errors.Is(err, ErrNoBlob) {
				t.Fatalf("Load() on empty store error = %v, want ErrNoBlob", err)
			}

			if err := store.Save(DataKey, []byte(`{"v":1}`)); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if err := store.Save(DataKey, []byte(`{"v":2}`)); err != nil {
				t.Fatalf("Save() overwrite error = %v", err)
			}

			got, err := store.Load(DataKey)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if string(got) != `{"v":2}` {
				t.Errorf("Load() = %s, want {\"v\":2}", got)
			}

			if _, err := store.Load("other"); !errors.Is(err, ErrNoBlob) {
				t.Errorf("Load(other) error = %v, want ErrNoBlob", err)
			}
		})
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := store.Save(DataKey, []byte("{}")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != DataKey+".json" {
		t.Errorf("directory entries = %v, want only %s.json", entries, DataKey)
	}
}

func TestSQLiteStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pubsly.db")

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	saved := time.UnixMilli(1714564800000)
	store.now = func() time.Time { return saved }
	if err := store.Save(DataKey, []byte("payload")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load(DataKey)
	if err != nil || string(got) != "payload" {
		t.Errorf("Load() = %q, %v; want payload", got, err)
	}
	at, err := reopened.UpdatedAt(DataKey)
	if err != nil || !at.Equal(saved) {
		t.Errorf("UpdatedAt() = %v, %v; want %v", at, err, saved)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("Open(redis) should fail")
	}
}

type untimedStore struct{ BlobStore }

func TestLastSaved(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := LastSaved(store, DataKey); !errors.Is(err, ErrNoBlob) {
				t.Fatalf("LastSaved() before any save error = %v, want ErrNoBlob", err)
			}

			before := time.Now().Add(-2 * time.Second)
			if err := store.Save(DataKey, []byte("payload")); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			after := time.Now().Add(2 * time.Second)

			at, err := LastSaved(store, DataKey)
			if err != nil {
				t.Fatalf("LastSaved() error = %v", err)
			}
			if at.Before(before) || at.After(after) {
				t.Errorf("LastSaved() = %v, want between %v and %v", at, before, after)
			}
		})
	}

	if _, err := LastSaved(untimedStore{}, DataKey); !errors.Is(err, ErrNoBlob) {
		t.Errorf("LastSaved() on a store without save times error = %v, want ErrNoBlob", err)
	}
}
