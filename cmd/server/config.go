package main

import (
	"fmt"
	"os"
	"time"

	"scriptbox/internal/executor/runner"
	"scriptbox/internal/server"
	"scriptbox/internal/server/middleware"
	"scriptbox/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHost            = "127.0.0.1"
	defaultPort            = 3339
	defaultReadTimeout     = 5 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	// Write timeout must cover the longest allowed script execution
	// plus response streaming.
	defaultWriteTimeout = 90 * time.Second

	apiKeyEnv = "SCRIPTBOX_API_KEY"
)

// ServerConfig holds bind settings. The HTTP timeouts are fixed
// constants rather than config fields: the write timeout in particular
// is coupled to the maximum script timeout and must not be lowered
// below it.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ExecutorConfig holds execution settings.
type ExecutorConfig struct {
	WorkRoot string        `yaml:"workRoot"`
	APIKey   string        `yaml:"apiKey"`
	Runner   runner.Config `yaml:"runner"`
}

// AppConfig holds the full service configuration, fixed for the process
// lifetime once loaded.
type AppConfig struct {
	Server   ServerConfig          `yaml:"server"`
	Logger   logger.Config         `yaml:"logger"`
	CORS     middleware.CORSConfig `yaml:"cors"`
	Executor ExecutorConfig        `yaml:"executor"`
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file failed: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file failed: %w", err)
		}
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultPort
	}
	if cfg.Executor.WorkRoot == "" {
		cfg.Executor.WorkRoot = "."
	}
	if cfg.Executor.APIKey == "" {
		cfg.Executor.APIKey = os.Getenv(apiKeyEnv)
	}
}

func (s ServerConfig) toHTTPConfig() server.Config {
	return server.Config{
		Addr:         fmt.Sprintf("%s:%d", s.Host, s.Port),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}
}
