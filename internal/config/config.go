// Package config loads process configuration from config.json or
// config.yaml, with .env and environment-variable overrides on top.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"discord-moderation-bot/internal/database"
	"discord-moderation-bot/internal/redis"

	"github.com/caarlos0/env/v11"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Token          string        `json:"token" yaml:"token" env:"DISCORD_TOKEN"`
	LogLevel       string        `json:"log_level" yaml:"log_level" env:"LOG_LEVEL"`
	MetricsAddr    string        `json:"metrics_addr" yaml:"metrics_addr" env:"METRICS_ADDR"`
	BackupDir      string        `json:"backup_dir" yaml:"backup_dir" env:"BACKUP_DIR"`
	ExpiryInterval time.Duration `json:"expiry_interval" yaml:"expiry_interval" env:"EXPIRY_INTERVAL"`

	Redis    redis.Config            `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	Postgres database.PostgresConfig `json:"postgres" yaml:"postgres" envPrefix:"POSTGRES_"`
}

// Load reads the config file at path. An empty path tries config.json
// then config.yaml. A .env file and environment variables override file
// values.
func Load(path string) (*Config, error) {
	// Missing .env is fine, it is a development convenience.
	_ = godotenv.Load()

	cfg := &Config{}

	if path == "" {
		for _, candidate := range []string{"config.json", "config.yaml", "config.yml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		} else {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.BackupDir == "" {
		c.BackupDir = "backups"
	}
	if c.ExpiryInterval <= 0 {
		c.ExpiryInterval = 30 * time.Second
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = "localhost:9090"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("config: token is required")
	}
	if c.Postgres.Host == "" || c.Postgres.Database == "" {
		return fmt.Errorf("config: postgres host and database are required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
