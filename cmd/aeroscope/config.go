package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hugr-lab/aeroscope-go/auth"
	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/sqlstore"
)

const defaultAddress = "localhost:50051"

// Config is the aeroscope.yaml file.
type Config struct {
	Address        string         `yaml:"address"`
	LogLevel       string         `yaml:"log_level"`
	MaxMessageSize int            `yaml:"max_message_size"`
	MaxSessions    int            `yaml:"max_sessions"`
	Database       string         `yaml:"database"`
	Sources        []SourceConfig `yaml:"sources"`
	Tokens         []auth.Token   `yaml:"tokens"`
}

// SourceConfig names one dataset to serve. A source is read from Path, or
// from Table of the DuckDB Database when Table is set.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Comment string `yaml:"comment"`
	Path    string `yaml:"path"`
	Table   string `yaml:"table"`
	Columns string `yaml:"columns"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Address == "" {
		cfg.Address = defaultAddress
	}
	// Relative source paths are relative to the config file.
	dir := filepath.Dir(path)
	for i := range cfg.Sources {
		if p := cfg.Sources[i].Path; p != "" && !filepath.IsAbs(p) {
			cfg.Sources[i].Path = filepath.Join(dir, p)
		}
	}
	if cfg.Database != "" && !filepath.IsAbs(cfg.Database) {
		cfg.Database = filepath.Join(dir, cfg.Database)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	seen := make(map[string]bool)
	for _, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source name cannot be empty")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name: %s", s.Name)
		}
		seen[s.Name] = true
		if (s.Path == "") == (s.Table == "") {
			return fmt.Errorf("source %s needs exactly one of path or table", s.Name)
		}
		if s.Table != "" && c.Database == "" {
			return fmt.Errorf("source %s reads table %s but no database is configured", s.Name, s.Table)
		}
		if _, err := dataset.Convention(s.Columns); err != nil {
			return fmt.Errorf("source %s: %w", s.Name, err)
		}
	}
	if c.MaxMessageSize < 0 {
		return fmt.Errorf("max_message_size must be non-negative")
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("max_sessions must be non-negative")
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func (c *Config) source(name string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceConfig{}, false
}

// openStore opens the configured DuckDB database, or returns nil when none
// is configured.
func (c *Config) openStore(ctx context.Context, logger *slog.Logger) (*sqlstore.Store, error) {
	if c.Database == "" {
		return nil, nil
	}
	return sqlstore.Open(ctx, c.Database, logger)
}

// load reads the source table. Sources read from files are also imported
// into store when one is open.
func (s SourceConfig) load(ctx context.Context, store *sqlstore.Store) (*dataset.Table, error) {
	columns, err := dataset.Convention(s.Columns)
	if err != nil {
		return nil, err
	}
	if s.Table != "" {
		return store.Load(ctx, s.Table, columns)
	}
	table, err := dataset.Open(s.Path, columns, nil)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.Name, err)
	}
	if store != nil {
		if err := store.Import(ctx, s.Name, table); err != nil {
			return nil, err
		}
	}
	return table, nil
}
