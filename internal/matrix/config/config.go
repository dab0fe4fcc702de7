// Package config loads service configuration from a YAML file, with the
// path taken from the CONFIG_PATH environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultPath = "config/config.yaml"

// Config holds all service settings.
type Config struct {
	HTTPPort      int      `yaml:"HTTP_PORT"`
	DBHost        string   `yaml:"DB_HOST"`
	DBPort        int      `yaml:"DB_PORT"`
	DBUser        string   `yaml:"DB_USER"`
	DBPassword    string   `yaml:"DB_PASSWORD"`
	DBName        string   `yaml:"DB_NAME"`
	DBSSLMode     string   `yaml:"DB_SSLMODE"`
	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	Topic         string   `yaml:"TOPIC"`
	JWTSecret     string   `yaml:"JWT_SECRET"`
	RedisAddr     string   `yaml:"REDIS_ADDR"`
	RedisPassword string   `yaml:"REDIS_PASSWORD"`
	RedisDB       int      `yaml:"REDIS_DB"`
	CacheTTLSecs  int      `yaml:"CACHE_TTL_SECONDS"`
	// SweepSchedule is a cron expression for the expiry sweep.
	SweepSchedule string `yaml:"SWEEP_SCHEDULE"`
}

// Load reads the YAML config. Secrets may be overridden via JWT_SECRET and
// DB_PASSWORD environment variables so they need not live in the file.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = filepath.FromSlash(defaultPath)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if cfg.CacheTTLSecs <= 0 {
		cfg.CacheTTLSecs = 60
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@hourly"
	}
	return &cfg, nil
}
