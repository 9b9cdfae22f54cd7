package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// safeBuffer is a thread-safe buffer for capturing output in tests.
type safeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

const lengthGraph = `
node "uv" {
  type = "uv"
}

node "len" {
  type = "length"
  input "v" {
    from = uv.uv
  }
}

node "out" {
  type = "output"
  input "color" {
    from = len.out
  }
}
`

// writeFiles writes files relative to a fresh temporary directory and returns
// the directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

// setupApp builds an app with debug logging and dumps the logs when
// SHADERGRID_TEST_LOGS is set.
func setupApp(t *testing.T, cfg Config) (*App, *safeBuffer, *safeBuffer) {
	t.Helper()
	cfg.LogLevel = "debug"
	conf, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &safeBuffer{}, &safeBuffer{}
	a, err := NewApp(out, logs, conf)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("SHADERGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}
