package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full configuration surface consumed by the query
// client: where the ERP listens, how long to wait, which filter
// dialect to encode, and an optional current-company context.
type Config struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Dialect        string `toml:"dialect"`
	Company        string `toml:"company"`
}

// Default is the configuration used when no file is supplied. Port
// 9000 is the ERP's stock listen port.
func Default() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           9000,
		TimeoutSeconds: 30,
		Dialect:        "stringcontains",
	}
}

// Load reads a TOML config file, fills defaults for absent keys, and
// validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("config missing host")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("config port out of range: %d", cfg.Port)
	}
	if cfg.TimeoutSeconds <= 0 {
		return fmt.Errorf("config timeout must be positive: %d", cfg.TimeoutSeconds)
	}
	return nil
}

// Endpoint renders the target URL for the transport.
func (c Config) Endpoint() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// Timeout renders the per-request deadline.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
