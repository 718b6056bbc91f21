package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	AppDirName     = "roulette-oracle"
	configFileName = "config.yaml"

	DefaultIngestPort = 17889
	DefaultLogLevel   = "info"
)

// Config is the application configuration. Every field has a usable default,
// so a missing file is not an error.
type Config struct {
	Ingest IngestConfig `yaml:"ingest"`
	Log    LogConfig    `yaml:"log"`
	// MaxSpins caps the in-memory history; 0 keeps every spin.
	MaxSpins int `yaml:"max_spins"`
}

type IngestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Token   string `yaml:"token"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Ingest: IngestConfig{Enabled: true, Port: DefaultIngestPort},
		Log:    LogConfig{Level: DefaultLogLevel, Pretty: true},
	}
}

// DefaultPath is <UserConfigDir>/roulette-oracle/config.yaml, falling back to
// the home directory and then the working directory.
func DefaultPath() string {
	return filepath.Join(AppDataDir(), configFileName)
}

// AppDataDir returns an OS-appropriate directory for app files.
func AppDataDir() string {
	if d, err := os.UserConfigDir(); err == nil && d != "" {
		return filepath.Join(d, AppDirName)
	}
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return filepath.Join(h, "."+AppDirName)
	}
	return "."
}

// Load reads path (if it exists) over the defaults, then applies
// environment overrides. An empty path means DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ORACLE_INGEST_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ORACLE_INGEST_PORT: %w", err)
		}
		c.Ingest.Port = port
	}
	if v, ok := lookup("ORACLE_INGEST_TOKEN"); ok {
		c.Ingest.Token = v
	}
	if v, ok := lookup("ORACLE_INGEST_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ORACLE_INGEST_ENABLED: %w", err)
		}
		c.Ingest.Enabled = enabled
	}
	if v, ok := lookup("ORACLE_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("ORACLE_MAX_SPINS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ORACLE_MAX_SPINS: %w", err)
		}
		c.MaxSpins = n
	}
	return nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	if c.Ingest.Port < 1 || c.Ingest.Port > 65535 {
		return fmt.Errorf("ingest port %d out of range", c.Ingest.Port)
	}
	if c.MaxSpins < 0 {
		return fmt.Errorf("max_spins must be >= 0, got %d", c.MaxSpins)
	}
	return nil
}
