package immich

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir enumerates image files directly inside dir (non-recursive)
// and returns them sorted ascending by modification time. The sort is
// stable so ties keep directory enumeration order. Subdirectories,
// symlinks, hidden files and non-matching extensions are skipped.
func ScanDir(dir string, extensions []string, logger *slog.Logger) ([]CandidateFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading sync dir: %w", err)
	}

	var files []CandidateFile

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		// Symlinks could point at files outside the sync dir or at
		// special files that stall an upload.
		if entry.Type()&os.ModeSymlink != 0 {
			logger.Debug("skipping symlink during scan", slog.String("name", entry.Name()))
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !matchesExtension(name, extensions) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logger.Warn("stat failed during scan",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		files = append(files, CandidateFile{
			Path:  filepath.Join(dir, name),
			Name:  name,
			Size:  info.Size(),
			MTime: info.ModTime(),
			CTime: fileCtime(info),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].MTime.Before(files[j].MTime)
	})

	return files, nil
}

// matchesExtension reports whether the filename carries one of the
// configured extensions, case-insensitively.
func matchesExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
