package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the default name of the config file.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Register   RegisterConfig `yaml:"register"`
	Accounts   AccountsConfig `yaml:"accounts"`
	Statements []Statement    `yaml:"statements,omitempty"`
	Cache      CacheConfig    `yaml:"cache"`
	Output     OutputConfig   `yaml:"output"`
	Log        LogConfig      `yaml:"log"`
}

// ServerConfig locates the bookkeeping server.
type ServerConfig struct {
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	Username string        `yaml:"username"`
}

// RegisterConfig controls the transaction register view.
type RegisterConfig struct {
	PageSize int `yaml:"page_size"`
}

// AccountsConfig controls the account hierarchy.
type AccountsConfig struct {
	RootLabel string `yaml:"root_label"` // shown for the synthetic top level, e.g. "Root"
	ChartPath string `yaml:"chart_path"`
}

// Statement maps a bank statement source to the accounts its lines post to.
// A CounterAccountID of zero leaves the other side of each line unassigned.
type Statement struct {
	Name             string `yaml:"name"`
	Format           string `yaml:"format"`
	AccountID        int64  `yaml:"account_id"`
	CounterAccountID int64  `yaml:"counter_account_id"`
}

// CacheConfig controls the local snapshot cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Color bool `yaml:"color"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level  string `yaml:"level"` // debug, info, warn or error
	Events string `yaml:"events,omitempty"`
}

// Load reads a tally.yaml file from disk. Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new setup.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8000/",
			Timeout: 30 * time.Second,
		},
		Register: RegisterConfig{
			PageSize: 20,
		},
		Accounts: AccountsConfig{
			RootLabel: "Root",
			ChartPath: "accounts.csv",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "cache/tally.db",
		},
		Output: OutputConfig{
			Color: true,
		},
		Log: LogConfig{
			Level:  "info",
			Events: "logs/events.csv",
		},
	}
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("server.url %q must be an http or https URL", c.Server.URL))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("server.timeout must be positive"))
	}
	if c.Register.PageSize < 1 {
		errs = append(errs, fmt.Errorf("register.page_size must be at least 1, got %d", c.Register.PageSize))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	seen := map[string]bool{}
	for _, s := range c.Statements {
		if s.Name == "" {
			errs = append(errs, errors.New("statements: name is required"))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("statements: duplicate name %q", s.Name))
		}
		seen[s.Name] = true
	}
	return errors.Join(errs...)
}

// Statement returns the statement source called name.
func (c *Config) Statement(name string) (Statement, bool) {
	for _, s := range c.Statements {
		if s.Name == name {
			return s, true
		}
	}
	return Statement{}, false
}

// resolve makes relative file paths relative to dir.
func (c *Config) resolve(dir string) {
	for _, p := range []*string{&c.Accounts.ChartPath, &c.Cache.Path, &c.Log.Events} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", s)
}
