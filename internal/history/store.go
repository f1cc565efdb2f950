// Package history persists the set of files already synchronized to the
// server. Membership keys are supplied by the caller (base filename by
// default) and only ever grow: nothing in this package removes entries.
package history

import (
	"fmt"
	"log/slog"
)

// Store backends, matching the HISTORY_BACKEND configuration values.
const (
	BackendJSON = "json"
	BackendBolt = "bolt"
)

// Store is the durable progress record for settled files. Add must
// persist before returning so a crash loses at most the in-flight file.
type Store interface {
	// Contains reports whether a key was already settled.
	Contains(key string) bool
	// Add records a key and persists it immediately.
	Add(key string) error
	// Len returns the number of settled keys.
	Len() int
	// Close releases any underlying resources.
	Close() error
}

// Open opens the progress store for the configured backend. An
// unreadable or corrupt store is treated as empty, never as fatal.
func Open(backend, path string, logger *slog.Logger) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return OpenJSON(path, logger)
	case BackendBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
