package immich

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string, runs chan<- struct{}) (cancel func(), done <-chan error) {
	t.Helper()

	runner := RunnerFunc(func(ctx context.Context) (int, error) {
		runs <- struct{}{}
		return 0, nil
	})

	w := NewWatcher(dir, testExtensions, runner, discardLogger)
	w.debounce = 50 * time.Millisecond

	ctx, cancelCtx := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Watch(ctx) }()

	// Give the watch registration time to land before events fire.
	time.Sleep(100 * time.Millisecond)

	return cancelCtx, errc
}

func TestWatch_TriggersRunAfterNewFile(t *testing.T) {
	dir := t.TempDir()
	runs := make(chan struct{}, 10)

	cancel, done := startWatcher(t, dir, runs)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.png"), []byte("png"), 0o644))

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a sync run after a matching file appeared")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_CoalescesBurstIntoOneRun(t *testing.T) {
	dir := t.TempDir()
	runs := make(chan struct{}, 10)

	cancel, done := startWatcher(t, dir, runs)
	defer cancel()

	// All writes land inside one debounce window.
	for _, name := range []string{"a.png", "b.jpg", "c.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a sync run after the burst settled")
	}

	select {
	case <-runs:
		t.Fatal("a single burst must trigger exactly one run")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_IgnoresNonMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	runs := make(chan struct{}, 10)

	cancel, done := startWatcher(t, dir, runs)
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("text"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".partial.png"), []byte("tmp"), 0o644))

	select {
	case <-runs:
		t.Fatal("non-matching files must not trigger a run")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	runs := make(chan struct{}, 1)

	cancel, done := startWatcher(t, dir, runs)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope"), testExtensions, RunnerFunc(func(ctx context.Context) (int, error) {
		return 0, nil
	}), discardLogger)

	err := w.Watch(context.Background())
	require.Error(t, err)
}

func TestRelevant(t *testing.T) {
	w := NewWatcher(t.TempDir(), testExtensions, nil, discardLogger)

	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"shot.png", fsnotify.Create, true},
		{"shot.PNG", fsnotify.Write, true},
		{"shot.jpg", fsnotify.Rename, true},
		{"shot.png", fsnotify.Chmod, false},
		{"shot.png", fsnotify.Remove, false},
		{"notes.txt", fsnotify.Create, false},
		{".hidden.png", fsnotify.Create, false},
	}
	for _, tt := range tests {
		ev := fsnotify.Event{Name: filepath.Join("some", "dir", tt.name), Op: tt.op}
		assert.Equal(t, tt.want, w.relevant(ev), "%s %v", tt.name, tt.op)
	}
}
