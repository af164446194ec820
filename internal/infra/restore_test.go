package infra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileRestoreStore {
	t.Helper()
	return NewFileRestoreStore(filepath.Join(t.TempDir(), "restore.json"), nil)
}

func TestFileRestoreStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	store.Write("https://grok.com/chat/abc")

	url, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "https://grok.com/chat/abc", url)

	// Reading does not clear.
	url, ok = store.Read()
	require.True(t, ok)
	assert.Equal(t, "https://grok.com/chat/abc", url)

	store.Clear()
	_, ok = store.Read()
	assert.False(t, ok)
}

func TestFileRestoreStore_WriteOverwrites(t *testing.T) {
	store := newTestStore(t)

	store.Write("https://grok.com/a")
	store.Write("https://grok.com/b")

	url, ok := store.Read()
	require.True(t, ok)
	assert.Equal(t, "https://grok.com/b", url)
}

func TestFileRestoreStore_MissingFile(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Read()
	assert.False(t, ok)

	// Clearing a missing record is a no-op.
	store.Clear()
}

func TestFileRestoreStore_CorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFileRestoreStore(path, nil)
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestFileRestoreStore_UnexpectedShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ts": 12345}`), 0o600))

	store := NewFileRestoreStore(path, nil)
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestFileRestoreStore_WriteToUnwritablePathSwallowed(t *testing.T) {
	store := NewFileRestoreStore(filepath.Join(t.TempDir(), "no", "such", "dir", "restore.json"), nil)

	// Must not panic or surface an error.
	store.Write("https://grok.com/")
	_, ok := store.Read()
	assert.False(t, ok)
}

func TestFileRestoreStore_RecordsTimestamp(t *testing.T) {
	store := newTestStore(t)
	store.Write("https://grok.com/")

	data, err := os.ReadFile(store.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"restoreUrl":"https://grok.com/"`)
	assert.Contains(t, string(data), `"ts":`)
}
