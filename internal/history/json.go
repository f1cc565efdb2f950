package history

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

const (
	// historyDirPerm is the permission mode for the store directory.
	historyDirPerm = fs.FileMode(0o700)

	// historyFilePerm is the permission mode for the store file.
	historyFilePerm = fs.FileMode(0o600)
)

// JSONStore keeps settled keys as a human-readable JSON array of
// strings. The file is read fully on open and rewritten whole on each
// Add, via a temp file renamed over the original so a crash mid-write
// never corrupts previously recorded entries.
type JSONStore struct {
	path string
	keys map[string]struct{}
}

// OpenJSON opens (or initializes) a JSON store at the given path. A
// missing file is an empty store; an unreadable or unparseable file is
// logged and likewise treated as empty, so a damaged store degrades to
// re-checking files against the server rather than failing the run.
func OpenJSON(path string, logger *slog.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), historyDirPerm); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	s := &JSONStore{
		path: path,
		keys: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("history store unreadable, starting empty",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
		return s, nil
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		logger.Warn("history store corrupt, starting empty",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return s, nil
	}

	for _, name := range names {
		s.keys[name] = struct{}{}
	}

	return s, nil
}

// Contains reports whether a key was already settled.
func (s *JSONStore) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Add records a key and rewrites the store file. The key stays in
// memory even if the write fails, so the current run never re-uploads;
// the next run may retry the file and rely on server-side dedup.
func (s *JSONStore) Add(key string) error {
	if _, ok := s.keys[key]; ok {
		return nil
	}

	s.keys[key] = struct{}{}

	return s.flush()
}

// Len returns the number of settled keys.
func (s *JSONStore) Len() int {
	return len(s.keys)
}

// Close is a no-op; every Add already persisted.
func (s *JSONStore) Close() error {
	return nil
}

// flush writes the full key set to a temp file and atomically replaces
// the store file.
func (s *JSONStore) flush() error {
	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	sort.Strings(names)

	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, historyFilePerm); err != nil {
		return fmt.Errorf("writing history temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}

	return nil
}
