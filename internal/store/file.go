package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores all records in a single JSON snapshot file. The snapshot is
// loaded lazily and rewritten in full on every put, which is acceptable only
// at this system's scale. A mutex serializes writes within the process; there
// is no cross-process safety.
type FileKV struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]json.RawMessage
}

// NewFileKV creates a file-backed KV over the snapshot at path. The file is
// created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// load reads the snapshot into memory. Callers must hold f.mu.
func (f *FileKV) load() error {
	if f.loaded {
		return nil
	}
	f.data = make(map[string]json.RawMessage)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read snapshot %s: %w", f.path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.data); err != nil {
			return fmt.Errorf("failed to parse snapshot %s: %w", f.path, err)
		}
	}
	f.loaded = true
	return nil
}

// flush serializes the whole snapshot back to disk. Callers must hold f.mu.
func (f *FileKV) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", f.path, err)
	}
	return nil
}

// Get returns the value stored under key.
func (f *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return nil, false, err
	}
	value, ok := f.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Put upserts the value under key and rewrites the snapshot.
func (f *FileKV) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	f.data[key] = stored
	return f.flush()
}

// Delete removes the key and rewrites the snapshot.
func (f *FileKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.load(); err != nil {
		return err
	}
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}
