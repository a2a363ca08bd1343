package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "matches.db", cfg.Database.Path)
	assert.Equal(t, "uploads", cfg.Ingest.UploadDir)
	assert.True(t, cfg.Ingest.ReloadOnStart)
	assert.Equal(t, 4, cfg.Ingest.Concurrency)
	assert.Equal(t, time.Minute, cfg.Stats.CacheTTL)
	assert.Equal(t, "https://www.thebluealliance.com/api/v3", cfg.TBA.BaseURL)
	assert.Empty(t, cfg.TBA.AuthKey)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_PATH", "data/scouting.db")
	t.Setenv("RAILWAY_VOLUME_MOUNT_PATH", "/mnt/vol")
	t.Setenv("INGEST_CONCURRENCY", "0")
	t.Setenv("STATS_CACHE_TTL", "not-a-duration")
	t.Setenv("TBA_BASE_URL", "http://tba.local/api/v3/")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, filepath.Join("/mnt/vol", "scouting.db"), cfg.Database.Path)
	assert.Equal(t, 1, cfg.Ingest.Concurrency)
	assert.Equal(t, time.Minute, cfg.Stats.CacheTTL)
	assert.Equal(t, "http://tba.local/api/v3", cfg.TBA.BaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}
