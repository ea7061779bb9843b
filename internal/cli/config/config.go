package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "http://127.0.0.1:3339"

	// DefaultTimeout covers the longest allowed script execution.
	DefaultTimeout = 90 * time.Second
)

// Config holds CLI configuration. The HTTP timeout is flag-only; yaml
// cannot decode duration strings, so it stays out of the file format.
type Config struct {
	BaseURL    string `yaml:"baseURL"`
	APIKey     string `yaml:"apiKey"`
	PrettyJSON *bool  `yaml:"prettyJSON"`

	Timeout time.Duration `yaml:"-"`
}

// Load reads the YAML config. A missing file yields pure defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("SCRIPTBOX_API_KEY")
	}
	if cfg.PrettyJSON == nil {
		value := true
		cfg.PrettyJSON = &value
	}
}
