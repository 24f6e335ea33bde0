package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
database:
  path: /tmp/test.db
redis:
  address: localhost:6379
  password: ${TEST_REDIS_PASSWORD}
monitoring:
  prometheus_enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.True(t, cfg.Monitoring.PrometheusEnabled)

	// Defaults fill the rest.
	assert.Equal(t, 60, cfg.Redis.CacheTTLSeconds)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 365, cfg.Export.RetentionDays)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "data/barbearia.db", cfg.Database.Path)
	assert.Equal(t, "data/backups", cfg.Database.Backup.Path)
	assert.Equal(t, 7, cfg.Database.Backup.RetentionDays)
	assert.False(t, cfg.Database.Backup.Enabled)
}
