package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	// Create a temporary directory for the test database
	tempDir, err := os.MkdirTemp("", "hugin-test-*")
	require.NoError(t, err)

	// Create store in temp directory
	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	// Return cleanup function
	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Equal(t, "hugin.db", filepath.Base(store.Path()))
	_, err := os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_Reopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "hugin-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run migrations or fail
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestScanStore_MarkAndCheck(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	scans := store.ScanStore()

	path := "/attachments/Ukeplan uke 48 Max.pdf"

	done, err := scans.IsProcessed(ctx, path)
	require.NoError(t, err)
	assert.False(t, done)

	err = scans.MarkProcessed(ctx, path, time.Now())
	require.NoError(t, err)

	done, err = scans.IsProcessed(ctx, path)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestScanStore_MarkTwice(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	scans := store.ScanStore()

	path := "/attachments/ukeplan-ella.jpg"

	require.NoError(t, scans.MarkProcessed(ctx, path, time.Now()))
	// Second mark is a no-op, not an error
	require.NoError(t, scans.MarkProcessed(ctx, path, time.Now()))

	done, err := scans.IsProcessed(ctx, path)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestScanStore_SurvivesReopen(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "hugin-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	ctx := context.Background()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.ScanStore().MarkProcessed(ctx, "/a/ukeplan.pdf", time.Now()))
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	done, err := store.ScanStore().IsProcessed(ctx, "/a/ukeplan.pdf")
	require.NoError(t, err)
	assert.True(t, done)
}
