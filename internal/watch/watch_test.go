package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *recorder) handle(_ context.Context, paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, append([]string(nil), paths...))
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.batches...)
}

func TestWatcher_DebouncesWrites(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	graphFile := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphFile, []byte(`node "a" { type = "uv" }`), 0o644))

	rec := &recorder{}
	w, err := New(rec.handle, 50*time.Millisecond, graphFile)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// --- Act ---
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(graphFile, []byte(`node "b" { type = "uv" }`), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	// --- Assert ---
	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
	batches := rec.snapshot()
	assert.Equal(t, []string{graphFile}, batches[0])
}

func TestWatcher_FileRootIgnoresSiblings(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	graphFile := filepath.Join(dir, "graph.hcl")
	other := filepath.Join(dir, "other.hcl")
	require.NoError(t, os.WriteFile(graphFile, []byte(`node "a" { type = "uv" }`), 0o644))
	require.NoError(t, os.WriteFile(other, []byte(`node "a" { type = "uv" }`), 0o644))

	rec := &recorder{}
	w, err := New(rec.handle, 20*time.Millisecond, graphFile)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// --- Act ---
	require.NoError(t, os.WriteFile(other, []byte(`node "b" { type = "uv" }`), 0o644))
	time.Sleep(200 * time.Millisecond)
	siblingOnly := rec.snapshot()
	require.NoError(t, os.WriteFile(graphFile, []byte(`node "b" { type = "uv" }`), 0o644))

	// --- Assert ---
	assert.Empty(t, siblingOnly)
	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
	for _, batch := range rec.snapshot() {
		assert.Equal(t, []string{graphFile}, batch)
	}
}

func TestWatcher_Wants(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "graphs")
	require.NoError(t, os.Mkdir(sub, 0o755))
	file := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := New(func(context.Context, []string) {}, 0, file, sub)
	require.NoError(t, err)
	t.Cleanup(func() { w.fsw.Close() })

	assert.True(t, w.wants(file))
	assert.True(t, w.wants(filepath.Join(sub, "a.hcl")))
	assert.True(t, w.wants(filepath.Join(sub, "nested", "b.hcl")))
	assert.False(t, w.wants(filepath.Join(dir, "other.hcl")))
	assert.False(t, w.wants(filepath.Join(dir, "graphs2", "c.hcl")))
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	w, err := New(func(context.Context, []string) {}, 0, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(func(context.Context, []string) {}, time.Millisecond, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch")
}
