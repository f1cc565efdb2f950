package immich

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	discardLogger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	testExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
)

// writeFileAt creates a file with the given modification time.
func writeFileAt(t *testing.T, dir, name string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func candidateNames(files []CandidateFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return names
}

func TestScanDir_SortsByModTimeAscending(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Created in an order unrelated to their mtimes.
	writeFileAt(t, dir, "middle.png", base.Add(2*time.Hour))
	writeFileAt(t, dir, "newest.png", base.Add(3*time.Hour))
	writeFileAt(t, dir, "oldest.png", base.Add(1*time.Hour))

	files, err := ScanDir(dir, testExtensions, discardLogger)
	require.NoError(t, err)

	assert.Equal(t, []string{"oldest.png", "middle.png", "newest.png"}, candidateNames(files))
}

func TestScanDir_FiltersExtensionsCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	writeFileAt(t, dir, "a.PNG", now)
	writeFileAt(t, dir, "b.JpEg", now)
	writeFileAt(t, dir, "notes.txt", now)
	writeFileAt(t, dir, "raw.cr2", now)

	files, err := ScanDir(dir, testExtensions, discardLogger)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.PNG", "b.JpEg"}, candidateNames(files))
}

func TestScanDir_SkipsDirectoriesAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeFileAt(t, dir, filepath.Join("nested", "deep.png"), now)
	writeFileAt(t, dir, ".hidden.png", now)
	writeFileAt(t, dir, "visible.png", now)

	files, err := ScanDir(dir, testExtensions, discardLogger)
	require.NoError(t, err)

	assert.Equal(t, []string{"visible.png"}, candidateNames(files),
		"scan is non-recursive and skips hidden files")
}

func TestScanDir_CapturesMetadata(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	writeFileAt(t, dir, "shot.png", mtime)

	files, err := ScanDir(dir, testExtensions, discardLogger)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, filepath.Join(dir, "shot.png"), f.Path)
	assert.Equal(t, "shot.png", f.Name)
	assert.Equal(t, int64(len("shot.png")), f.Size)
	assert.True(t, f.MTime.Equal(mtime))
}

func TestScanDir_MissingDirectory(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "nope"), testExtensions, discardLogger)
	require.Error(t, err)
}

func TestMatchesExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"a.jpeg", true},
		{"a.webp", true},
		{"a.txt", false},
		{"a", false},
		{"png", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesExtension(tt.name, testExtensions), tt.name)
	}
}
