package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/devprbtt/wiringmaster/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "wiring.db"),
		LogLevel:   "silent",
	}
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(context.Background(), sqliteConfig(t), time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func TestMigrateCreatesTables(t *testing.T) {
	db := openMigrated(t)

	for _, table := range []string{"devices", "device_ios", "diagrams", "diagram_devices", "connections"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasColumn("connections", "source_io_id"))
	assert.True(t, db.Migrator().HasColumn("connections", "target_io_id"))

	// a second run is a no-op
	require.NoError(t, Migrate(context.Background(), db))
}

func TestRollbackLast(t *testing.T) {
	db := openMigrated(t)

	require.NoError(t, RollbackLast(context.Background(), db))
	assert.False(t, db.Migrator().HasTable("devices"))
	assert.False(t, db.Migrator().HasTable("connections"))

	require.NoError(t, Migrate(context.Background(), db))
	assert.True(t, db.Migrator().HasTable("devices"))
}

func TestTransactorRollsBack(t *testing.T) {
	db := openMigrated(t)
	tx := Transactor(db)

	err := tx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO diagrams (id, name, created_at, updated_at) VALUES ('d1', 'x', ?, ?)", Now(), Now()).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var n int64
	require.NoError(t, db.Table("diagrams").Count(&n).Error)
	assert.Equal(t, int64(0), n)
}

func TestConnectUnsupportedDriver(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), config.DatabaseConfig{Driver: "mysql"}, time.Minute, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNowPrecision(t *testing.T) {
	now := Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, 0, now.Nanosecond()%1000)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_busy_timeout=5000&_journal_mode=WAL", SQLiteDSN("a.db"))
	assert.Equal(t, "file:x?mode=memory&_busy_timeout=5000&_journal_mode=WAL", SQLiteDSN("file:x?mode=memory"))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, LogLevel("silent"))
	assert.Equal(t, logger.Info, LogLevel("DEBUG"))
	assert.Equal(t, logger.Warn, LogLevel("bogus"))
}
