// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"rag-cost/core/types"
	"rag-cost/internal/errors"
	"rag-cost/internal/logging"
)

// Environment variables that override file settings
const (
	EnvCatalog  = "RAG_COST_CATALOG"
	EnvLogLevel = "RAG_COST_LOG_LEVEL"
	EnvAddr     = "RAG_COST_ADDR"
	EnvFormat   = "RAG_COST_FORMAT"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Catalog contains price catalog configuration
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Defaults is the usage profile used when flags are omitted
	Defaults types.UsageProfile `json:"defaults" yaml:"defaults"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// CatalogConfig contains catalog-related settings
type CatalogConfig struct {
	// Path is a catalog file; empty means the built-in catalog
	Path string `json:"path" yaml:"path"`

	// Watch reloads the catalog file when it changes (server only)
	Watch bool `json:"watch" yaml:"watch"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// Color enables ANSI colors in table output
	Color bool `json:"color" yaml:"color"`

	// Top limits ranked output; 0 shows everything
	Top int `json:"top" yaml:"top"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Defaults: types.UsageProfile{
			QueriesPerDay:       100,
			InputUnitsPerQuery:  15000,
			OutputUnitsPerQuery: 700,
			CacheHitRatio:       0,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			Color:         true,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or YAML file and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Config("read config "+path, err)
		default:
			if err := decode(path, data, config); err != nil {
				return nil, err
			}
		}
	}

	config.ApplyEnv(os.LookupEnv)
	return config, nil
}

func decode(path string, data []byte, into *Config) error {
	var err error
	if isYAML(path) {
		err = yaml.Unmarshal(data, into)
	} else {
		err = json.Unmarshal(data, into)
	}
	if err != nil {
		return errors.Config("parse config "+path, err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadEnvFile exports the variables of a .env file that are not already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Config("load env file "+path, err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCatalog); ok && v != "" {
		c.Catalog.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvFormat); ok && v != "" {
		c.Output.DefaultFormat = v
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return errors.Config("invalid default profile", err)
	}
	switch c.Output.DefaultFormat {
	case "table", "json", "markdown":
	default:
		return errors.Config("invalid output format "+c.Output.DefaultFormat, nil)
	}
	if c.Output.Top < 0 {
		return errors.Config("output top must be >= 0", nil)
	}
	if c.Server.Addr == "" {
		return errors.Config("server addr must not be empty", nil)
	}
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 {
		return errors.Config("server timeouts must be >= 0", nil)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Config("invalid log level "+c.Logging.Level, err)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
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
