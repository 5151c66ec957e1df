package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./uploads", cfg.Upload.Dir)
	assert.Equal(t, "./dist", cfg.Web.Dir)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.MinIO.Enabled())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("UPLOAD_DIR", "/srv/uploads")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "/srv/uploads", cfg.Upload.Dir)
	assert.True(t, cfg.MinIO.Enabled())
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal port=5432")
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("WIRING_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnvOrDefault("WIRING_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("WIRING_TEST_MISSING", "fallback"))
}
