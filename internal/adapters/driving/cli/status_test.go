package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadcache/internal/core/ports/driving"
)

func setupStatusTest(coord driving.SyncCoordinator, lists []string) func() {
	oldCoord := syncCoordinator
	oldLists := listIDs
	syncCoordinator = coord
	listIDs = lists
	return func() {
		syncCoordinator = oldCoord
		listIDs = oldLists
	}
}

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestStatusCmd_ReportsIdleLists(t *testing.T) {
	cleanup := setupStatusTest(&mockCoordinator{
		status: &driving.SyncStatus{ListID: "leads", RecordsApplied: 12},
	}, []string{"leads"})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "leads: ok, 12 records applied")
}

func TestStatusCmd_ReportsFailure(t *testing.T) {
	cleanup := setupStatusTest(&mockCoordinator{
		status: &driving.SyncStatus{ListID: "leads", LastError: "cursor expired"},
	}, []string{"leads"})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "last sync failed")
	assert.Contains(t, buf.String(), "cursor expired")
	assert.Contains(t, buf.String(), "last successful sync")
}

func TestStatusCmd_ReportsRunningSync(t *testing.T) {
	cleanup := setupStatusTest(&mockCoordinator{
		status: &driving.SyncStatus{ListID: "leads", Running: true},
	}, []string{"leads"})
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "sync in progress")
}

func TestStatusCmd_NoListsConfigured(t *testing.T) {
	cleanup := setupStatusTest(&mockCoordinator{}, nil)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No lists configured")
}
