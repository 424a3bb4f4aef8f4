package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Stage    StageConfig    `toml:"stage"`
	Builder  BuilderConfig  `toml:"builder"`
}

// CatalogConfig lists song sources and remote fetch limits.
type CatalogConfig struct {
	Sources            []string `toml:"sources"`
	HTTPTimeoutSeconds int      `toml:"http_timeout_seconds"`
	RequestsPerSecond  float64  `toml:"requests_per_second"`
}

// HTTPTimeout returns the remote fetch timeout, defaulting to 30 seconds.
func (c CatalogConfig) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [net/http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StageConfig contains settings for the interactive stage view.
type StageConfig struct {
	LogPath string `toml:"log_path"`
}

// BuilderConfig is the smart set builder policy.
type BuilderConfig struct {
	Capacity int           `toml:"capacity"`
	Steps    []BuilderStep `toml:"steps"`
}

// BuilderStep picks up to Count songs of exactly Energy.
type BuilderStep struct {
	Energy int `toml:"energy"`
	Count  int `toml:"count"`
}

// Validate checks values that would make the application misbehave rather than fail loudly.
func (c *Config) Validate() error {
	if c.Builder.Capacity < 0 {
		return fmt.Errorf("%w: builder capacity must not be negative", ErrInvalidConfig)
	}
	for i, step := range c.Builder.Steps {
		if step.Count < 0 {
			return fmt.Errorf("%w: builder step %d has a negative count", ErrInvalidConfig, i+1)
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file are taken from the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults(DefaultConfig())

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills unset values from d.
func (c *Config) applyDefaults(d *Config) {
	if len(c.Catalog.Sources) == 0 {
		c.Catalog.Sources = d.Catalog.Sources
	}
	if c.Catalog.HTTPTimeoutSeconds == 0 {
		c.Catalog.HTTPTimeoutSeconds = d.Catalog.HTTPTimeoutSeconds
	}
	if c.Database.Path == "" {
		c.Database = d.Database
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Stage.LogPath == "" {
		c.Stage.LogPath = d.Stage.LogPath
	}
	if c.Builder.Capacity == 0 {
		c.Builder.Capacity = d.Builder.Capacity
	}
	if len(c.Builder.Steps) == 0 {
		c.Builder.Steps = d.Builder.Steps
	}
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
