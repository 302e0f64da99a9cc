package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, "http://127.0.0.1:8000", cfg.Predictor.BaseURL)
	require.False(t, cfg.Cache.Enabled)
	require.Equal(t, 20, cfg.History.RecentLimit)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  address: ":9090"
  allowedOrigins: ["https://ppgi.example.com"]
predictor:
  baseUrl: "http://model:8000"
  timeout: 3s
cache:
  enabled: true
  addr: "valkey:6379"
  ttl: 10m
history:
  recentLimit: 50
  sqlitePath: "/var/lib/ppgi/history.db"
food:
  catalogPath: "foods.yaml"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PREDICTOR_TIMEOUT", "7s")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, "http://model:8000", cfg.Predictor.BaseURL)
	require.Equal(t, 7*time.Second, cfg.Predictor.Timeout)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.Equal(t, 50, cfg.History.RecentLimit)
	require.Equal(t, "/var/lib/ppgi/history.db", cfg.History.SQLitePath)
	require.Equal(t, "foods.yaml", cfg.Food.CatalogPath)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "cache.addr")

	cfg = defaultConfig()
	cfg.Predictor.BaseURL = " "
	require.ErrorContains(t, cfg.Validate(), "predictor.baseUrl")

	cfg = defaultConfig()
	cfg.HTTP.RateLimit.Burst = 0
	require.ErrorContains(t, cfg.Validate(), "burst")

	require.NoError(t, defaultConfig().Validate())
}
