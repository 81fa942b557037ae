package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/classify"
	"github.com/rustyeddy/taxledger/engine"
)

// Config represents the complete analysis configuration
type Config struct {
	Policy  PolicyConfig  `json:"policy" yaml:"policy"`
	Pricing PricingConfig `json:"pricing" yaml:"pricing"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// PolicyConfig contains the jurisdiction-dependent tax policy knobs
type PolicyConfig struct {
	// Categories whose inflows do not open lots
	NonTaxableAcquisitions []string `json:"non_taxable_acquisitions" yaml:"non_taxable_acquisitions"`
	// Categories whose outflows do not realize gains
	NonTaxableDisposals []string `json:"non_taxable_disposals" yaml:"non_taxable_disposals"`
	// Holding-period threshold in days; at or beyond is long-term
	LongTermDays int `json:"long_term_days" yaml:"long_term_days"`
}

// PricingConfig contains oracle parameters
type PricingConfig struct {
	// Per-asset fallback price when the oracle cannot resolve a timestamp
	FallbackPrices map[string]string `json:"fallback_prices,omitempty" yaml:"fallback_prices,omitempty"`
	// Oracle calls per second; 0 disables throttling
	RatePerSecond int `json:"rate_per_second" yaml:"rate_per_second"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type           string `json:"type" yaml:"type"` // "csv" or "sqlite"
	RunsFile       string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	GainsFile      string `json:"gains_file,omitempty" yaml:"gains_file,omitempty"`
	CategoriesFile string `json:"categories_file,omitempty" yaml:"categories_file,omitempty"`
	DBPath         string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, cat := range append(c.Policy.NonTaxableAcquisitions, c.Policy.NonTaxableDisposals...) {
		if !chain.ValidCategory(chain.Category(cat)) {
			return fmt.Errorf("policy: unknown category %q", cat)
		}
	}
	if c.Policy.LongTermDays <= 0 {
		return fmt.Errorf("policy.long_term_days must be positive")
	}
	for asset, price := range c.Pricing.FallbackPrices {
		if _, err := decimal.NewFromString(price); err != nil {
			return fmt.Errorf("pricing.fallback_prices[%s]: %w", asset, err)
		}
	}
	if c.Pricing.RatePerSecond < 0 {
		return fmt.Errorf("pricing.rate_per_second must not be negative")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.RunsFile == "" || c.Journal.GainsFile == "" || c.Journal.CategoriesFile == "") {
		return fmt.Errorf("journal runs_file, gains_file and categories_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	return nil
}

// EnginePolicy converts the config into the engine's policy type.
func (c *Config) EnginePolicy() engine.Policy {
	p := engine.Policy{
		NonTaxableAcquisitions: make(map[chain.Category]bool),
		NonTaxableDisposals:    make(map[chain.Category]bool),
		LongTermAfter:          time.Duration(c.Policy.LongTermDays) * 24 * time.Hour,
		FallbackPrices:         make(map[string]decimal.Decimal),
	}
	for _, cat := range c.Policy.NonTaxableAcquisitions {
		p.NonTaxableAcquisitions[chain.Category(cat)] = true
	}
	for _, cat := range c.Policy.NonTaxableDisposals {
		p.NonTaxableDisposals[chain.Category(cat)] = true
	}
	for asset, price := range c.Pricing.FallbackPrices {
		d, err := decimal.NewFromString(price)
		if err != nil {
			continue // Validate rejects these before we get here
		}
		p.FallbackPrices[strings.ToUpper(asset)] = d
	}
	return p
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Policy: PolicyConfig{
			NonTaxableAcquisitions: []string{string(chain.CategoryTransfer)},
			NonTaxableDisposals: []string{
				string(chain.CategoryTransfer),
				string(chain.CategoryGiftSent),
				string(chain.CategoryLost),
			},
			LongTermDays: int(classify.DefaultLongTermAfter.Hours() / 24),
		},
		Pricing: PricingConfig{
			RatePerSecond: 10,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./taxledger.sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
