// Copyright 2025 The Veil Authors
// This file is part of the Veil library.

package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "veil.json")

	cfg := DefaultConfig()
	cfg.Storage.DataDir = "/var/lib/veil"
	cfg.Logging.Level = "debug"

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Storage.DataDir != cfg.Storage.DataDir {
		t.Error("Data dir mismatch after round trip")
	}
	if loaded.Logging.Level != "debug" {
		t.Error("Log level mismatch after round trip")
	}
}

func TestValidateFillsDerivedDirs(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{DataDir: "/tmp/veil"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Storage.KeystoreDir != filepath.Join("/tmp/veil", "keystore") {
		t.Errorf("Keystore dir not derived: %s", cfg.Storage.KeystoreDir)
	}
	if cfg.Storage.RecordsDir != filepath.Join("/tmp/veil", "records") {
		t.Errorf("Records dir not derived: %s", cfg.Storage.RecordsDir)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	if err := (&Config{}).Validate(); err != ErrMissingDataDir {
		t.Errorf("Expected ErrMissingDataDir, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err != ErrInvalidLogLevel {
		t.Errorf("Expected ErrInvalidLogLevel, got %v", err)
	}
}
