package server

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Host)
	}
	if cfg.Port != 5000 {
		t.Errorf("Expected port 5000, got %d", cfg.Port)
	}
	if cfg.MaxConnections != 5 {
		t.Errorf("Expected backlog hint 5, got %d", cfg.MaxConnections)
	}
	if cfg.BufferSize != 1024 {
		t.Errorf("Expected buffer size 1024, got %d", cfg.BufferSize)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Expected no timeout, got %v", cfg.Timeout())
	}
	if cfg.Addr() != "127.0.0.1:5000" {
		t.Errorf("Expected addr 127.0.0.1:5000, got %s", cfg.Addr())
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echo.json")
	content := `{"host": "0.0.0.0", "port": 6000, "buffer_size": 2048}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected host 0.0.0.0, got %s", cfg.Host)
	}
	if cfg.Port != 6000 {
		t.Errorf("Expected port 6000, got %d", cfg.Port)
	}
	if cfg.BufferSize != 2048 {
		t.Errorf("Expected buffer size 2048, got %d", cfg.BufferSize)
	}
	// Fields absent from the file keep their defaults.
	if cfg.MaxConnections != 5 {
		t.Errorf("Expected default backlog hint 5, got %d", cfg.MaxConnections)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "echo.json")
	if err := os.WriteFile(path, []byte(`{"port": 6000}`), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("ECHO_PORT", "7000")
	t.Setenv("ECHO_HOST", "10.0.0.1")
	t.Setenv("ECHO_TIMEOUT_SECONDS", "3")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != 7000 {
		t.Errorf("Expected env port 7000 to win over file, got %d", cfg.Port)
	}
	if cfg.Host != "10.0.0.1" {
		t.Errorf("Expected env host, got %s", cfg.Host)
	}
	if cfg.Timeout() != 3*time.Second {
		t.Errorf("Expected 3s timeout, got %v", cfg.Timeout())
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty host", func(c *Config) { c.Host = "" }},
		{"negative port", func(c *Config) { c.Port = -1 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero buffer", func(c *Config) { c.BufferSize = 0 }},
		{"negative backlog", func(c *Config) { c.MaxConnections = -1 }},
		{"negative timeout", func(c *Config) { c.TimeoutSeconds = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}
