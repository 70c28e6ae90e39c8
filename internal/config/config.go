package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Corpus settings
	Corpus CorpusConfig `json:"corpus"`

	// Start-up validation settings
	Startup StartupConfig `json:"startup"`

	// UI preferences
	UI UIConfig `json:"ui"`
}

// CorpusConfig controls where blessings come from and how they page in
type CorpusConfig struct {
	// File is an optional JSON corpus (category -> blessings).
	// Empty uses the embedded corpus.
	File string `json:"file,omitempty"`

	// PageSize is how many items one page reveals
	PageSize int `json:"page_size"`
}

// StartupConfig controls the start-up reachability probe
type StartupConfig struct {
	// ProbeAddr is dialed before validation; empty skips the probe
	ProbeAddr string `json:"probe_addr"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	Theme            string `json:"theme"`
	PickCooldownMs   int    `json:"pick_cooldown_ms"`   // suppress double-triggers on next-blessing
	SearchDebounceMs int    `json:"search_debounce_ms"` // wait after typing before re-querying
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			PageSize: 50,
		},
		Startup: StartupConfig{
			ProbeAddr: "223.5.5.5:53", // public DNS, cheap TCP probe
		},
		UI: UIConfig{
			Theme:            "dark",
			PickCooldownMs:   300,
			SearchDebounceMs: 250,
		},
	}
}

// DataDir returns the application data directory
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".blessings")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DBPath returns the path to the local store
func DBPath() string {
	return filepath.Join(DataDir(), "blessings.db")
}

// Load reads config from disk, or returns defaults.
// A missing or malformed file is not an error.
func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}

	// Zeroed fields in a hand-edited file fall back to defaults
	if cfg.Corpus.PageSize <= 0 {
		cfg.Corpus.PageSize = 50
	}
	if cfg.UI.PickCooldownMs <= 0 {
		cfg.UI.PickCooldownMs = 300
	}
	if cfg.UI.SearchDebounceMs <= 0 {
		cfg.UI.SearchDebounceMs = 250
	}

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
