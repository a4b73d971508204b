package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIURL                string `yaml:"api_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

func Default() Config {
	return Config{
		APIURL:                "http://localhost:7000",
		RequestTimeoutSeconds: 15,
	}
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. Invalid values are clamped rather than rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:7000"
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 15
	}
	if cfg.RequestTimeoutSeconds > 120 {
		cfg.RequestTimeoutSeconds = 120
	}
	return cfg, nil
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultPath returns ~/.config/babytrack/config.yaml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "babytrack", "config.yaml"), nil
}
