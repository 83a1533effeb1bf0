package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend keeps every key in one JSON object on disk, values stored as
// strings the way browser local storage does. Writes go through a temp file
// and rename so readers never observe a partial file.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend returns a backend persisting to path. The parent directory
// is created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file path.
func (f *FileBackend) Path() string { return f.path }

// readAll returns the decoded file. A missing or malformed file is empty.
func (f *FileBackend) readAll() (map[string]string, error) {
	entries := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("history: read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if jsonErr := json.Unmarshal(data, &entries); jsonErr != nil || entries == nil {
		return make(map[string]string), nil
	}
	return entries, nil
}

// Get returns the stored value for key.
func (f *FileBackend) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.readAll()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set stores value under key, preserving other keys.
func (f *FileBackend) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.readAll()
	if err != nil {
		return err
	}
	entries[key] = string(value)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("history: marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("history: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("history: create temp: %w", err)
	}
	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("history: write: %w", writeErr)
	}
	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("history: close: %w", closeErr)
	}
	if renameErr := os.Rename(tmp.Name(), f.path); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("history: finalize: %w", renameErr)
	}
	return nil
}

// Close is a no-op; the file is not held open.
func (f *FileBackend) Close() error { return nil }
