// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"quote-engine/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Catalog contains pricing catalog settings
	Catalog CatalogConfig `json:"catalog"`

	// Quote contains quote calculation defaults
	Quote QuoteConfig `json:"quote"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CatalogConfig contains pricing catalog settings
type CatalogConfig struct {
	// Path is the default pricing catalog file
	Path string `json:"path"`

	// CacheEnabled enables catalog snapshot caching
	CacheEnabled bool `json:"cache_enabled"`

	// CacheTTLSeconds is how long cached catalog versions stay fresh
	CacheTTLSeconds int `json:"cache_ttl_seconds"`
}

// QuoteConfig contains quote calculation defaults
type QuoteConfig struct {
	// ProjectionYears is the default number of projection years
	ProjectionYears int `json:"projection_years"`

	// EscalationCode is the default escalation policy code
	EscalationCode string `json:"escalation_code"`

	// MilestoneStyle is the default payment schedule style
	MilestoneStyle string `json:"milestone_style"`

	// DurationMonths is the default implementation duration
	DurationMonths int `json:"duration_months"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows per-line-item breakdowns
	ShowDetails bool `json:"show_details"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	catalogPath := filepath.Join(homeDir, ".quote-engine", "catalog.hcl")

	return &Config{
		Version: "1.0",
		Catalog: CatalogConfig{
			Path:            catalogPath,
			CacheEnabled:    true,
			CacheTTLSeconds: 3600,
		},
		Quote: QuoteConfig{
			ProjectionYears: 5,
			EscalationCode:  "STANDARD_4PCT",
			MilestoneStyle:  "FIXED_MONTHLY",
			DurationMonths:  12,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
