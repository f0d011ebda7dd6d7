package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := database.NewDatabase(&config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "console.db"),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("audit_logs"))
	assert.True(t, db.Migrator().HasTable("upload_records"))

	require.NoError(t, database.HealthCheck(context.Background(), db))

	stats, err := database.HealthCheckWithStats(context.Background(), db)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := database.NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
