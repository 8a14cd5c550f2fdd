package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectUntil(t *testing.T, events <-chan Event, match func(Event) bool) Event {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed before match")
			if match(ev) {
				return ev
			}
		case <-deadline:
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestNew_RejectsMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestWatcher_SeesNewFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Events(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.py"), []byte("code"), 0o644))

	ev := collectUntil(t, events, func(e Event) bool { return e.Path == "models.py" })
	assert.Equal(t, "created", ev.Op)
}

func TestWatcher_FollowsNewStageDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Events(ctx)

	stageDir := filepath.Join(dir, "backend")
	require.NoError(t, os.Mkdir(stageDir, 0o755))

	collectUntil(t, events, func(e Event) bool { return e.Path == "backend" })

	// Give the recursive add a moment before writing into the new dir.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(stageDir, "routes.py"), []byte("code"), 0o644))

	ev := collectUntil(t, events, func(e Event) bool {
		return e.Path == filepath.Join("backend", "routes.py")
	})
	assert.Equal(t, "created", ev.Op)
}

func TestWatcher_IgnoresTempFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := w.Events(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.yaml.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte("x"), 0o644))

	ev := collectUntil(t, events, func(e Event) bool { return e.Op == "created" })
	assert.Equal(t, "manifest.yaml", ev.Path)
}

func TestWatcher_ChannelClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Events(ctx)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close after cancel")
	}
}
