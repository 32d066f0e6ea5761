package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile("config.yaml", []byte(data), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file present

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://localhost:8100", cfg.Catalog.BaseURL)
	assert.Equal(t, 15, cfg.Catalog.TimeoutSecs)
	assert.Equal(t, 5, cfg.Catalog.DefaultTopK)
	assert.Equal(t, 0.7, cfg.Pricing.FuzzyThreshold)
	assert.Equal(t, 30.0, cfg.Pricing.DecayHalfLifeDays)
	assert.Equal(t, "EUR", cfg.Pricing.Currency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PRICING_STORE_DRIVER", "postgres")
	t.Setenv("PRICING_SERVER_PORT", "9090")
	t.Setenv("PRICING_CATALOG_BASE_URL", "http://search:8100")
	t.Setenv("PRICING_PRICING_CURRENCY", "USD")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://search:8100", cfg.Catalog.BaseURL)
	assert.Equal(t, "USD", cfg.Pricing.Currency)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	writeConfigFile(t, `
store:
  driver: postgres
  database_url: postgres://localhost/pricing
server:
  port: 3000
pricing:
  fuzzy_threshold: 0.8
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/pricing", cfg.Store.DatabaseURL)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 0.8, cfg.Pricing.FuzzyThreshold)
	// Untouched keys keep defaults.
	assert.Equal(t, "EUR", cfg.Pricing.Currency)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
