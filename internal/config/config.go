// Package config loads runtime configuration for the vault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
package config

// Config holds runtime settings for the vault CLI.
type Config struct {
	// DatabasePath is the SQLite file holding the live vault.
	DatabasePath string
	// BackupDir is where backup files are written by default.
	BackupDir string
	// RecentlyEdited is how many entries the recently-edited view shows.
	RecentlyEdited int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "passvault.db"
	c.BackupDir = "backups"
	c.RecentlyEdited = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
