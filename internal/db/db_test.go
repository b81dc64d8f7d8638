package db

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/swiss-pairings/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	database, err := Open(config.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB, config.DriverSQLite, "../../migrations"))
	// Running twice is a no-op.
	require.NoError(t, RunMigrations(database.DB, config.DriverSQLite, "../../migrations"))

	var tables []string
	err = database.SelectContext(context.Background(), &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('tournaments', 'players', 'matches') ORDER BY name")
	require.NoError(t, err)
	assert.Equal(t, []string{"matches", "players", "tournaments"}, tables)

	var foreignKeys int
	require.NoError(t, database.Get(&foreignKeys, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, foreignKeys)
}

func TestRunMigrations_UnknownDriver(t *testing.T) {
	database, err := Open(config.DriverSQLite, "file::memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.Error(t, RunMigrations(database.DB, "mysql", "../../migrations"))
}
