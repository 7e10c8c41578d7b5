package file

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsExternalEdit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("sessions.backend", "csv"))

	var reloads atomic.Int32
	w, err := store.Watch(func() { reloads.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	other, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, other.Set("sessions.backend", "sqlite"))

	assert.Eventually(t, func() bool {
		return store.GetString("sessions.backend") == "sqlite"
	}, 3*time.Second, 20*time.Millisecond)
	assert.Positive(t, reloads.Load())
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	var reloads atomic.Int32
	w, err := store.Watch(func() { reloads.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(dir+"/notes.txt", []byte("hello"), 0600))

	time.Sleep(3 * reloadDelay)
	assert.Zero(t, reloads.Load())
}

func TestWatch_CloseIsIdempotent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	w, err := store.Watch(nil)
	require.NoError(t, err)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
