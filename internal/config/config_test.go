package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dominoes-go/internal/logging"
)

// isolate keeps the user's own config files and environment out of a test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"PORT", "STORAGE_TYPE", "REDIS_URL", "SQLITE_PATH", "LOG_LEVEL",
		"LOG_FORMAT", "DOMINOES_TARGET_SCORE", "DOMINOES_AUTO_PASS",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEmbeddedMatchesDefaults(t *testing.T) {
	cfg, err := embedded()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StorageTypeMemory, cfg.Storage.Type)
	assert.Equal(t, 100, cfg.Rules.TargetScore)
	assert.Equal(t, 13, cfg.Rules.ViewportHalfWidth)
	assert.True(t, cfg.Rules.AutoPass)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, 72*time.Hour, cfg.Redis.GameTTL)
}

func TestLoadCustomPathKeepsMissingDefaults(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "custom.yaml", `
storage:
  type: sqlite
sqlite:
  path: /tmp/games.db
rules:
  targetScore: 50
log:
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StorageTypeSQLite, cfg.Storage.Type)
	assert.Equal(t, "/tmp/games.db", cfg.SQLite.Path)
	assert.Equal(t, 50, cfg.Rules.TargetScore)
	assert.Equal(t, logging.FormatText, cfg.Log.Format)
	assert.Equal(t, 13, cfg.Rules.ViewportHalfWidth)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadCustomPathErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	bad := writeFile(t, t.TempDir(), "bad.yaml", "rules: [not, a, map")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoadUserConfig(t *testing.T) {
	isolate(t)
	home := os.Getenv("HOME")
	writeFile(t, home, filepath.Join(".dominoes", "config.yaml"), "server:\n  port: 9090\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "3000")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DOMINOES_TARGET_SCORE", "200")
	t.Setenv("DOMINOES_AUTO_PASS", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, StorageTypeRedis, cfg.Storage.Type)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 200, cfg.Rules.TargetScore)
	assert.False(t, cfg.Rules.AutoPass)
}

func TestEnvOverrideErrors(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "eighty")
	_, err := Load("")
	assert.ErrorContains(t, err, "invalid PORT")

	t.Setenv("PORT", "")
	t.Setenv("DOMINOES_AUTO_PASS", "sometimes")
	_, err = Load("")
	assert.ErrorContains(t, err, "invalid DOMINOES_AUTO_PASS")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Storage.Type = "postgres"
	assert.ErrorContains(t, bad.Validate(), "storage.type")

	bad = cfg
	bad.Storage.Type = StorageTypeRedis
	bad.Redis.URL = ""
	assert.ErrorContains(t, bad.Validate(), "redis.url")

	bad = cfg
	bad.Rules.TargetScore = 0
	assert.ErrorContains(t, bad.Validate(), "targetScore")

	bad = cfg
	bad.Rules.ViewportHalfWidth = -1
	assert.ErrorContains(t, bad.Validate(), "viewportHalfWidth")

	bad = cfg
	bad.Log.Level = "chatty"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Log.Format = "xml"
	assert.ErrorContains(t, bad.Validate(), "log.format")

	bad = cfg
	bad.Server.Port = 0
	assert.ErrorContains(t, bad.Validate(), "server.port")
}
