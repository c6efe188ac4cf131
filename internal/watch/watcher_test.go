package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, events <-chan Event, path string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event channel closed")
			}
			if ev.Path == path {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event on %s", path)
		}
	}
}

func expectNoEvent(t *testing.T, events <-chan Event, within time.Duration) {
	t.Helper()
	select {
	case ev := <-events:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(within):
	}
}

func TestWatcher_EmitsForContentChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "guides"), 0o750))

	watcher, err := NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	require.NoError(t, watcher.AddTree(root))
	watcher.Start(t.Context())

	target := filepath.Join(root, "guides", "setup.md")
	require.NoError(t, os.WriteFile(target, []byte("# Setup\n"), 0o600))

	waitForEvent(t, watcher.Events(), target)
}

func TestWatcher_SkipsHiddenAndIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o750))
	outDir := filepath.Join(root, "site")
	require.NoError(t, os.MkdirAll(outDir, 0o750))

	watcher, err := NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	watcher.Ignore(outDir)
	require.NoError(t, watcher.AddTree(root))
	watcher.Start(t.Context())

	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden.md"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "draft.md~"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "site.json"), []byte("{}"), 0o600))

	expectNoEvent(t, watcher.Events(), 300*time.Millisecond)

	// A real content change still comes through.
	target := filepath.Join(root, "intro.md")
	require.NoError(t, os.WriteFile(target, []byte("# Intro\n"), 0o600))
	waitForEvent(t, watcher.Events(), target)
}

func TestWatcher_PicksUpNewDirectories(t *testing.T) {
	root := t.TempDir()

	watcher, err := NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	require.NoError(t, watcher.AddTree(root))
	watcher.Start(t.Context())

	nested := filepath.Join(root, "java", "functional")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	// Give the watch loop time to pick up the new directories.
	time.Sleep(500 * time.Millisecond)

	target := filepath.Join(nested, "streams.md")
	require.NoError(t, os.WriteFile(target, []byte("# Streams\n"), 0o600))
	waitForEvent(t, watcher.Events(), target)
}

func TestWatcher_SingleFileWatchFiltersSiblings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docwright.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("site:\n  title: Test\n"), 0o600))

	watcher, err := NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	require.NoError(t, watcher.AddFile(cfgPath))
	watcher.Start(t.Context())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	expectNoEvent(t, watcher.Events(), 300*time.Millisecond)

	require.NoError(t, os.WriteFile(cfgPath, []byte("site:\n  title: Changed\n"), 0o600))
	waitForEvent(t, watcher.Events(), cfgPath)
}
