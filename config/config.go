// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the Veil wallet configuration
type Config struct {
	// Storage settings
	Storage StorageConfig `json:"storage"`

	// Logging settings
	Logging LoggingConfig `json:"logging"`
}

// StorageConfig contains on-disk storage locations
type StorageConfig struct {
	DataDir     string `json:"dataDir"`     // Root data directory
	KeystoreDir string `json:"keystoreDir"` // Encrypted key file directory
	RecordsDir  string `json:"recordsDir"`  // Payment record database directory
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `json:"level"`  // Log level (trace, debug, info, warn, error)
	Format string `json:"format"` // Log format (json, text)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:     "~/.veil",
			KeystoreDir: "~/.veil/keystore",
			RecordsDir:  "~/.veil/records",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig saves configuration to a JSON file
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	content, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, content, 0600)
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return ErrMissingDataDir
	}
	if c.Storage.KeystoreDir == "" {
		c.Storage.KeystoreDir = filepath.Join(c.Storage.DataDir, "keystore")
	}
	if c.Storage.RecordsDir == "" {
		c.Storage.RecordsDir = filepath.Join(c.Storage.DataDir, "records")
	}
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// GetKeystoreDir returns the expanded keystore directory path
func (c *Config) GetKeystoreDir() (string, error) {
	return ExpandPath(c.Storage.KeystoreDir)
}

// GetRecordsDir returns the expanded record database path
func (c *Config) GetRecordsDir() (string, error) {
	return ExpandPath(c.Storage.RecordsDir)
}

// Configuration errors
var (
	ErrMissingDataDir  = NewConfigError("missing data directory")
	ErrInvalidLogLevel = NewConfigError("invalid log level")
)

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new config error
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{message: msg}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return e.message
}
