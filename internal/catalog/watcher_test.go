package catalog

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

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcherRescansOnNewCorpus(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sb", "values", "values.html"), "values")
	writeFile(t, filepath.Join(root, "sb", "values", "Germany", "index.html"), "Germany")

	var (
		mu     sync.Mutex
		latest *Catalog
	)
	w, err := NewWatcher(root, 20*time.Millisecond, func(c *Catalog) {
		mu.Lock()
		latest = c
		mu.Unlock()
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	writeFile(t, filepath.Join(root, "sb", "values", "Italy", "index.html"), "Italy")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return latest != nil && len(latest.Corpora["sb/values"]) == 2
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"Germany", "Italy"}, latest.Corpora["sb/values"])
	mu.Unlock()
}
