// Package config loads the host platform configuration from a YAML file
// with RECOUNT_* environment overrides layered on top.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arraypress/edd-register-recount-tools/internal/logger"
	"github.com/arraypress/edd-register-recount-tools/internal/store"
)

// DefaultConfigPath is where Load looks when no path is given
const DefaultConfigPath = ".recount/config.yaml"

// Config represents the batch-export host configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Batch   BatchConfig   `yaml:"batch"`
	Store   store.Config  `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains the admin/batch HTTP surface settings
type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
}

// BatchConfig bounds the page sizes tools register with
type BatchConfig struct {
	DefaultBatchSize int64 `yaml:"default_batch_size"`
	MaxBatchSize     int64 `yaml:"max_batch_size"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8077,
			ReadTimeout:  15,
			WriteTimeout: 15,
		},
		Batch: BatchConfig{
			DefaultBatchSize: 20,
			MaxBatchSize:     500,
		},
		Store: store.Config{
			Type: "sqlite",
			SQLite: store.SQLiteConfig{
				Path: ".recount/orders.db",
			},
			Postgres: store.PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		Logging: LoggingConfig{
			Verbose: false,
		},
	}
}

// Load loads configuration from file, falling back to defaults when the
// file is absent, and applies environment overrides last.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
		logger.Debug("using default config path", "path", configPath)
	}

	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Debug("config file not found, using default configuration", "path", configPath)
		applyEnvOverrides(config)
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(config)
	logger.Debug("loaded config", "path", configPath, "store_type", config.Store.Type)
	return config, nil
}

// applyEnvOverrides layers RECOUNT_* environment variables over the file
func applyEnvOverrides(config *Config) {
	v := viper.New()
	v.SetEnvPrefix("RECOUNT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if host := v.GetString("server.host"); host != "" {
		config.Server.Host = host
	}
	if port := v.GetInt("server.port"); port != 0 {
		config.Server.Port = port
	}
	if size := v.GetInt64("batch.default_batch_size"); size > 0 {
		config.Batch.DefaultBatchSize = size
	}
	if size := v.GetInt64("batch.max_batch_size"); size > 0 {
		config.Batch.MaxBatchSize = size
	}
	if storeType := v.GetString("store.type"); storeType != "" {
		config.Store.Type = storeType
	}
	if path := v.GetString("store.sqlite.path"); path != "" {
		config.Store.SQLite.Path = path
	}
	if v.IsSet("logging.verbose") {
		config.Logging.Verbose = v.GetBool("logging.verbose")
	}
}

// Save writes the configuration to file
func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize config encoding: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("saved config", "path", configPath)
	return nil
}

// Addr returns the host:port the server binds to
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
