package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wildanre/Evently-sub001/internal/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "db_test.db")
	return cfg
}

func TestInitSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { Close() })

	assert.Equal(t, "sqlite", Type())
	require.NotNil(t, GetConnection())
	assert.NoError(t, GetConnection().Ping())
}

func TestInitIsIdempotent(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { Close() })

	first := GetConnection()
	require.NoError(t, Init(cfg))
	assert.Same(t, first, GetConnection())
}

func TestInitRejectsUnknownType(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "oracle"
	assert.Error(t, Init(cfg))
}

func TestMigrationsApplyOnce(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { Close() })

	db := GetConnection()

	// A second run must be a no-op, not a duplicate-table failure.
	require.NoError(t, RunMigrations(db, "sqlite"))

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, len(GetMigrations("sqlite")), applied)

	for _, table := range []string{"users", "events", "registrations", "payment_orders", "notifications"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}
