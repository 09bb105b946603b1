package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import for side-effects: registers the coinbase provider type.
	_ "coinfeed/pkg/market/exchanges/coinbase"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadHydratesMarketSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "market.yaml", `
default: coinbase
providers:
  coinbase:
    type: coinbase
    timeout: 30s
    max_retries: 2
`)
	appPath := writeFile(t, dir, "coinfeed.yaml", `
Env: test
Market:
  File: market.yaml
`)

	cfg, err := Load(appPath)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.True(t, cfg.IsTestEnv())

	require.NotNil(t, cfg.Market.Value)
	assert.Equal(t, "coinbase", cfg.Market.Value.Default)
	assert.Equal(t, filepath.Join(dir, "market.yaml"), cfg.Market.File)
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	dir := t.TempDir()
	appPath := writeFile(t, dir, "coinfeed.yaml", `
Env: staging
`)
	_, err := Load(appPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env must be one of")
}

func TestValidateDefaultsEnv(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "dev", cfg.Env)
}
