package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:10000", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.API.HealthCheckInterval)
	assert.Equal(t, "AAPL", cfg.MarketData.DefaultSymbol)
	assert.Equal(t, 100.0, cfg.MarketData.DefaultEntry.Spot)
	assert.Equal(t, 0.05, cfg.MarketData.DefaultEntry.Rate)
	assert.Equal(t, 0.25, cfg.MarketData.DefaultEntry.Vol)
	assert.Equal(t, 0.0, cfg.MarketData.DefaultEntry.Dividend)
	assert.Equal(t, 10000, cfg.Risk.Simulations)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"api": {"base_url": "http://risk.internal:9000"}, "market_data": {"default_symbol": "msft"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://risk.internal:9000", cfg.API.BaseURL)
	assert.Equal(t, "msft", cfg.MarketData.DefaultSymbol)
	// Untouched keys keep their defaults
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api": {"base_url": "http://from-file"}}`), 0600))

	t.Setenv("QDE_API_BASE_URL", "http://from-env")
	t.Setenv("QDE_MARKET_DATA_DEFAULT_SYMBOL", "TSLA")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.API.BaseURL)
	assert.Equal(t, "TSLA", cfg.MarketData.DefaultSymbol)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
