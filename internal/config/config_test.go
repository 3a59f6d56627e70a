package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Server.ListenAddr != "0.0.0.0:3868" {
		t.Errorf("ListenAddr default: got %s", cfg.Server.ListenAddr)
	}
	if cfg.Quota.GrantedCCTime != 3600 {
		t.Errorf("GrantedCCTime default: got %d", cfg.Quota.GrantedCCTime)
	}
	if cfg.Quota.GrantedCCTotalOctets != 104857600 {
		t.Errorf("GrantedCCTotalOctets default: got %d", cfg.Quota.GrantedCCTotalOctets)
	}
	if cfg.Dictionary.Path != "" {
		t.Errorf("Dictionary path default should be empty, got %s", cfg.Dictionary.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging level default: got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  listenAddr: "127.0.0.1:3870"
  originHost: "test-ocs.example.com"
quota:
  grantedCCTime: 600
  validityTime: 120
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:3870" {
		t.Errorf("ListenAddr: got %s", cfg.Server.ListenAddr)
	}
	if cfg.Server.OriginHost != "test-ocs.example.com" {
		t.Errorf("OriginHost: got %s", cfg.Server.OriginHost)
	}
	if cfg.Quota.GrantedCCTime != 600 {
		t.Errorf("GrantedCCTime: got %d", cfg.Quota.GrantedCCTime)
	}
	// Untouched sections keep defaults.
	if cfg.Server.OriginRealm != "example.com" {
		t.Errorf("OriginRealm default: got %s", cfg.Server.OriginRealm)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	server := ServerConfig{
		ListenAddr:     "",
		OriginHost:     "ocs.example.com",
		OriginRealm:    "example.com",
		MaxConnections: 10,
	}
	if err := server.Validate(); err == nil {
		t.Error("Expected error for empty listenAddr, got nil")
	}

	quota := QuotaConfig{}
	if err := quota.Validate(); err == nil {
		t.Error("Expected error for empty quota, got nil")
	}

	logging := LoggingConfig{Level: "verbose", Format: "json"}
	if err := logging.Validate(); err == nil {
		t.Error("Expected error for invalid log level, got nil")
	}
}
