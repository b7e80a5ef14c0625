package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcher_ReportsBrokenAndFixedRules(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := NewWatcher(NewLoader(dir))
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	writeRules(t, dir, "team", "code_style: [broken\n")
	require.Eventually(t, func() bool {
		return w.Stats().Invalid >= 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "team", w.Stats().LastInvalidID)

	writeRules(t, dir, "team", "code_style: fixed\n")
	require.Eventually(t, func() bool {
		return w.Stats().Validated >= 1
	}, 5*time.Second, 20*time.Millisecond)

	// Non-rules files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi"), 0644))

	w.Stop()

	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.FilesCreated+stats.FilesModified, 2)
	assert.Equal(t, 0, stats.Errors)
}

func TestWatcher_StartFailsOnMissingDir(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(NewLoader(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)

	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

func TestWatcher_ContextCancelStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(NewLoader(t.TempDir()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	w.Stop()
}

func TestWatcher_CheckAll(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "good", "code_style: ok\n")
	writeRules(t, dir, "bad", "code_style: [\n")

	w, err := NewWatcher(NewLoader(dir))
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.CheckAll())
	stats := w.Stats()
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, "bad", stats.LastInvalidID)
}
