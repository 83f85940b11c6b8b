package profile

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeLog struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeLog) record(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, p)
}

func (c *changeLog) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func TestFileWatcherScan(t *testing.T) {
	l := NewLoader(t.TempDir())
	def := l.Paths().DefaultPath()
	writeFile(t, def, "version: v1\n")

	var log changeLog
	w := WatchLoader(l, time.Hour, log.record)
	w.scanAll(true)
	assert.Empty(t, log.snapshot(), "priming must not notify")

	// modified
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(def, future, future))
	w.scanAll(false)
	assert.Equal(t, []string{def}, log.snapshot())

	// created
	prof := l.Paths().ProfilePath("fresh")
	writeFile(t, prof, "notes: new\n")
	w.scanAll(false)
	assert.Equal(t, []string{def, prof}, log.snapshot())

	// removed
	require.NoError(t, os.Remove(prof))
	w.scanAll(false)
	assert.Equal(t, []string{def, prof, prof}, log.snapshot())

	// unchanged
	w.scanAll(false)
	assert.Len(t, log.snapshot(), 3)
}

func TestFileWatcherStartStop(t *testing.T) {
	l := NewLoader(t.TempDir())
	var log changeLog
	w := WatchLoader(l, 10*time.Millisecond, log.record)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	writeFile(t, l.Paths().DefaultPath(), "version: v1\n")
	assert.Eventually(t, func() bool { return len(log.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)

	w.Stop()
	w.Stop()
}
