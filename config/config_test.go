package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/taxledger/chain"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 365, cfg.Policy.LongTermDays)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
policy:
  non_taxable_acquisitions: [transfer]
  non_taxable_disposals: [transfer, gift_sent]
  long_term_days: 365
pricing:
  fallback_prices:
    eth: "2500.50"
  rate_per_second: 5
journal:
  type: sqlite
  db_path: ./test.db
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Pricing.RatePerSecond)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"policy": {"long_term_days": 400},
		"journal": {"type": "sqlite", "db_path": "./t.db"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Policy.LongTermDays)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Default()
	require.NoError(t, want.SaveToFile(path))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown category", func(c *Config) { c.Policy.NonTaxableDisposals = []string{"banana"} }},
		{"zero holding threshold", func(c *Config) { c.Policy.LongTermDays = 0 }},
		{"bad fallback price", func(c *Config) { c.Pricing.FallbackPrices = map[string]string{"ETH": "lots"} }},
		{"negative rate", func(c *Config) { c.Pricing.RatePerSecond = -1 }},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Journal.DBPath = "" }},
		{"csv without files", func(c *Config) { c.Journal.Type = "csv" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "chatty" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEnginePolicy(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Pricing.FallbackPrices = map[string]string{"eth": "2500"}

	p := cfg.EnginePolicy()
	assert.True(t, p.NonTaxableAcquisitions[chain.CategoryTransfer])
	assert.True(t, p.NonTaxableDisposals[chain.CategoryGiftSent])
	assert.Equal(t, 365*24*time.Hour, p.LongTermAfter)
	// Asset keys are normalized to upper case.
	assert.True(t, p.FallbackPrices["ETH"].Equal(decimal.RequireFromString("2500")))
}
