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

const shapeTTL = "@prefix ex: <https://example.com/> .\nex:S a sh:NodeShape ; sh:targetClass ex:T .\n"

func startWatcher(t *testing.T, patterns ...string) *Watcher {
	t.Helper()
	w, err := New(Config{Patterns: patterns, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func next(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func quiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "*.ttl"))
	path := filepath.Join(dir, "order.ttl")

	require.NoError(t, os.WriteFile(path, []byte(shapeTTL), 0644))
	assert.Equal(t, Event{Path: path, Op: OpCreate}, next(t, w))

	// Same content: no event.
	require.NoError(t, os.WriteFile(path, []byte(shapeTTL), 0644))
	quiet(t, w)

	require.NoError(t, os.WriteFile(path, []byte(shapeTTL+"# edited\n"), 0644))
	assert.Equal(t, Event{Path: path, Op: OpModify}, next(t, w))

	require.NoError(t, os.Remove(path))
	assert.Equal(t, Event{Path: path, Op: OpDelete}, next(t, w))
}

func TestWatcher_Filters(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "*.ttl"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.jsonld"), []byte("{}"), 0644))
	quiet(t, w)
}

func TestWatcher_Seed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.ttl")
	require.NoError(t, os.WriteFile(path, []byte(shapeTTL), 0644))

	w := startWatcher(t, filepath.Join(dir, "*.ttl"))
	w.Seed([]string{path})

	require.NoError(t, os.WriteFile(path, []byte(shapeTTL), 0644))
	quiet(t, w)

	require.NoError(t, os.WriteFile(path, []byte(shapeTTL+"\n"), 0644))
	assert.Equal(t, Event{Path: path, Op: OpModify}, next(t, w))
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, filepath.Join(dir, "**", "*.ttl"))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	// Give the watcher a moment to add the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "a.ttl")
	require.NoError(t, os.WriteFile(path, []byte(shapeTTL), 0644))
	assert.Equal(t, Event{Path: path, Op: OpCreate}, next(t, w))
}

func TestRoots(t *testing.T) {
	assert.Equal(t, []string{"shapes", "."}, Roots([]string{
		"shapes/*.ttl",
		"shapes/**/*.jsonld",
		"*.ttl",
	}))
}

func TestNew_NoPatterns(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := New(Config{Patterns: []string{filepath.Join(t.TempDir(), "*.ttl")}})
	require.NoError(t, err)

	stopped := make(chan error, 1)
	go func() { stopped <- w.Stop() }()
	select {
	case err := <-stopped:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Stop blocked on a watcher that never started")
	}

	_, open := <-w.Events()
	assert.False(t, open)
	assert.NoError(t, w.Stop())
	assert.Error(t, w.Start(context.Background()))
}

func TestWatcher_StartTwice(t *testing.T) {
	w := startWatcher(t, filepath.Join(t.TempDir(), "*.ttl"))
	assert.Error(t, w.Start(context.Background()))
}
