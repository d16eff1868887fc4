package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Config holds the server's tunable settings. The zero value is not
// usable; start from DefaultConfig or LoadConfig.
type Config struct {
	Host string `json:"host"`
	Port int    `json:"port"`

	// MaxConnections is the listen backlog hint. The Go runtime sizes
	// the real kernel backlog itself, so this is advisory and does not
	// cap live sessions.
	MaxConnections int `json:"max_connections"`

	// BufferSize is the per-read receive buffer in bytes. A single read
	// may return a partial or coalesced message; no reassembly is done.
	BufferSize int `json:"buffer_size"`

	// TimeoutSeconds, when positive, bounds both Accept and each
	// session read. Zero means fully blocking I/O.
	TimeoutSeconds int `json:"timeout_seconds"`
}

// DefaultConfig returns the stock settings: 127.0.0.1:5000, backlog 5,
// 1KiB reads, no timeout.
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           5000,
		MaxConnections: 5,
		BufferSize:     1024,
		TimeoutSeconds: 0,
	}
}

// LoadConfig builds a Config from defaults, an optional JSON file and
// environment variables, in that precedence order (env wins). An empty
// path skips the file step.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays ECHO_* environment variables onto the config.
func (c *Config) applyEnv() {
	if host := os.Getenv("ECHO_HOST"); host != "" {
		c.Host = host
	}
	if port, ok := getEnvInt("ECHO_PORT"); ok {
		c.Port = port
	}
	if maxConns, ok := getEnvInt("ECHO_MAX_CONNECTIONS"); ok {
		c.MaxConnections = maxConns
	}
	if size, ok := getEnvInt("ECHO_BUFFER_SIZE"); ok {
		c.BufferSize = size
	}
	if timeout, ok := getEnvInt("ECHO_TIMEOUT_SECONDS"); ok {
		c.TimeoutSeconds = timeout
	}
}

// Validate ensures the configuration is coherent.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host must not be empty", ErrInvalidConfig)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer size must be positive, got %d", ErrInvalidConfig, c.BufferSize)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("%w: max connections must not be negative, got %d", ErrInvalidConfig, c.MaxConnections)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %d", ErrInvalidConfig, c.TimeoutSeconds)
	}
	return nil
}

// Addr returns the host:port string the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout returns the configured socket timeout, or zero for blocking I/O.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnvInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return intValue, true
}
