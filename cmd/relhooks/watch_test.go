package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/4thel00z/relhooks/internal"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the test read output while the watch loop writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFormatPending(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	got := formatPending(now, &internal.ReleaseOutput{Commits: make([]internal.Commit, 2)})
	if want := "[15:04:05] no release pending (2 commits)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = formatPending(now, &internal.ReleaseOutput{
		Type:        internal.ReleaseMinor,
		Commits:     make([]internal.Commit, 3),
		NextRelease: &internal.NextRelease{Version: "1.3.0"},
	})
	if want := "[15:04:05] minor -> 1.3.0 (3 commits)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: ".git/refs/heads/main", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: ".git/HEAD", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: ".git/refs/heads/main.lock", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: ".git/HEAD", Op: fsnotify.Chmod}, true},
		{fsnotify.Event{Name: ".git/index", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: ".git/refs/tags/v1.0.0", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		if got := shouldIgnoreEvent(tt.event); got != tt.want {
			t.Errorf("shouldIgnoreEvent(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestWatchCmdNotARepo(t *testing.T) {
	if _, _, err := run(t, "watch", "--dir", t.TempDir()); err == nil {
		t.Error("expected error outside a repository")
	}
}

func TestWatchCmdReportsNewCommits(t *testing.T) {
	tr := newTestRepo(t)
	tr.commit("fix: a")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	cmd := NewRootCmd("test", newApp())
	cmd.SetArgs([]string{"watch", "--dir", tr.dir, "--debounce", "50ms"})
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "patch -> 1.0.0 (1 commits)")
	}, 5*time.Second, 20*time.Millisecond, "initial pending line, got %q", out.String())

	tr.commit("feat: b")

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "minor -> 1.0.0 (2 commits)")
	}, 5*time.Second, 20*time.Millisecond, "pending line after commit, got %q", out.String())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchNewDir(t *testing.T) {
	refs := filepath.Join(t.TempDir(), "refs")
	nested := filepath.Join(refs, "heads", "feature")
	outside := filepath.Join(filepath.Dir(refs), "logs")
	for _, dir := range []string{nested, outside} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, watchNewDir(watcher, refs, fsnotify.Event{Name: nested, Op: fsnotify.Create}))
	require.NoError(t, watchNewDir(watcher, refs, fsnotify.Event{Name: outside, Op: fsnotify.Create}))
	require.NoError(t, watchNewDir(watcher, refs, fsnotify.Event{Name: filepath.Join(refs, "heads", "main"), Op: fsnotify.Create}))

	watched := watcher.WatchList()
	if !slices.Contains(watched, nested) {
		t.Errorf("expected %s to be watched, got %v", nested, watched)
	}
	if slices.Contains(watched, outside) {
		t.Errorf("did not expect %s to be watched", outside)
	}
}
