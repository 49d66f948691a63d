// Package config handles the global configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/evolab/taxatree/internal/spore"
)

// GlobalConfig represents configuration stored in ~/.config/taxatree/config.yml.
type GlobalConfig struct {
	TaxonomyBaseURL string `yaml:"taxonomy_base_url,omitempty"`
	PubsBaseURL     string `yaml:"pubs_base_url,omitempty"`
	PubsAPIKey      string `yaml:"pubs_api_key,omitempty"`

	MaxRetries      *int `yaml:"max_retries,omitempty"`
	RetryDelayMilli *int `yaml:"retry_delay_ms,omitempty"`

	DefaultTaxonomyType string `yaml:"default_taxonomy_type,omitempty"`
	DefaultDisplayType  string `yaml:"default_display_type,omitempty"`
	Theme               string `yaml:"theme,omitempty"`

	// DataDir is where saved spores live. Defaults to the config directory.
	DataDir string `yaml:"data_dir,omitempty"`

	// PDFDir is where downloaded paper PDFs are looked up.
	PDFDir string `yaml:"pdf_dir,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "taxatree"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// SporesFile is the saved-spores ledger name inside the data dir.
	SporesFile = "spores.jsonl"
	// CacheDBFile is the ephemeral spore index name inside the data dir.
	CacheDBFile = "spores.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/taxatree/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DataDir != "" {
		cfg.DataDir = ExpandTilde(cfg.DataDir)
	}
	if cfg.PDFDir != "" {
		cfg.PDFDir = ExpandTilde(cfg.PDFDir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// Save writes the config back to the global config file, creating the
// directory if needed, and refreshes the cache.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := c.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = c
	return nil
}

// Validate checks the enum-valued fields.
func (c *GlobalConfig) Validate() error {
	if c.DefaultTaxonomyType != "" {
		if _, err := spore.ParseTaxonomyType(c.DefaultTaxonomyType); err != nil {
			return fmt.Errorf("default_taxonomy_type: %w", err)
		}
	}
	if c.DefaultDisplayType != "" {
		if _, err := spore.ParseDisplayType(c.DefaultDisplayType); err != nil {
			return fmt.Errorf("default_display_type: %w", err)
		}
	}
	if c.Theme != "" && c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("theme: %q is not light or dark", c.Theme)
	}
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// RetryDelay returns the configured retry delay, or fallback.
func (c *GlobalConfig) RetryDelay(fallback time.Duration) time.Duration {
	if c.RetryDelayMilli == nil {
		return fallback
	}
	return time.Duration(*c.RetryDelayMilli) * time.Millisecond
}

// Retries returns the configured 429 retry bound, or fallback.
func (c *GlobalConfig) Retries(fallback int) int {
	if c.MaxRetries == nil {
		return fallback
	}
	return *c.MaxRetries
}

// TaxonomyType returns the configured default taxonomy type, or fallback.
func (c *GlobalConfig) TaxonomyType(fallback spore.TaxonomyType) spore.TaxonomyType {
	if c.DefaultTaxonomyType == "" {
		return fallback
	}
	tt, err := spore.ParseTaxonomyType(c.DefaultTaxonomyType)
	if err != nil {
		return fallback
	}
	return tt
}

// DisplayType returns the configured default display type, or fallback.
func (c *GlobalConfig) DisplayType(fallback spore.DisplayType) spore.DisplayType {
	if c.DefaultDisplayType == "" {
		return fallback
	}
	dt, err := spore.ParseDisplayType(c.DefaultDisplayType)
	if err != nil {
		return fallback
	}
	return dt
}

// SporesPath returns the saved-spores ledger path under the data dir,
// defaulting next to the config file.
func (c *GlobalConfig) SporesPath() string {
	return filepath.Join(c.dataDir(), SporesFile)
}

// CacheDBPath returns the ephemeral spore index path under the data dir.
func (c *GlobalConfig) CacheDBPath() string {
	return filepath.Join(c.dataDir(), CacheDBFile)
}

func (c *GlobalConfig) dataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Dir(GlobalConfigPath())
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
