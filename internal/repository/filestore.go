package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore is a file-backed BytesCache for single-key JSON state such as
// the retry queue. One file per key under a data dir; writes go through a
// temp file + rename so a crash cannot leave a torn state file.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the store, making the data dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "marketpulse")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// GetBytes reads the value stored under key; ok=false when absent.
func (f *FileStore) GetBytes(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return b, true, nil
}

// SetBytes writes the value; ttl is ignored (retention is the caller's job).
func (f *FileStore) SetBytes(key string, value []byte, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) path(key string) string {
	safe := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			safe = append(safe, c)
		default:
			safe = append(safe, '_')
		}
	}
	return filepath.Join(f.dir, string(safe)+".json")
}
