package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	unsetEnv(t, "PORT", "IMPORT_BATCH_SIZE", "PARSE_CACHE_TTL")
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.ImportBatchSize)
	assert.Equal(t, 15*time.Minute, cfg.ParseCacheTTL)
	assert.Same(t, cfg, Cfg)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"9090\"\nimport_batch_size: 25\nparse_cache_ttl: 2m\ncors_allowed_origins:\n  - https://journal.example\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	unsetEnv(t, "PORT", "PARSE_CACHE_TTL", "CORS_ALLOWED_ORIGINS")
	t.Setenv("IMPORT_BATCH_SIZE", "40")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 40, cfg.ImportBatchSize, "environment overrides the file")
	assert.Equal(t, 2*time.Minute, cfg.ParseCacheTTL)
	assert.Equal(t, []string{"https://journal.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("IMPORT_BATCH_SIZE", "lots")
	t.Setenv("RATE_LIMIT_INTERVAL", "soon")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.ImportBatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.RateLimitInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
