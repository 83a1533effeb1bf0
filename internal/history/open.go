package history

import (
	"fmt"
	"log"
)

// Backend kinds accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open builds a Store over the named backend kind at path.
func Open(kind, path string, logger *log.Logger) (*Store, error) {
	switch kind {
	case "", BackendFile:
		return New(NewFileBackend(path), logger), nil
	case BackendSQLite:
		b, err := NewSQLiteBackend(path)
		if err != nil {
			return nil, err
		}
		return New(b, logger), nil
	default:
		return nil, fmt.Errorf("history: unknown backend %q", kind)
	}
}
