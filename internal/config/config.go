// Package config loads service settings from an optional .env file, an
// optional YAML file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"CatalogEditor/internal/kv"
)

const minSecretLen = 32

type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Storage StorageConfig `yaml:"storage"`

	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsToken   string `yaml:"metrics_token"`

	EditorJWTSecret  string `yaml:"editor_jwt_secret"`
	WriteLimitPerMin int    `yaml:"write_limit_per_min"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"`
	Key         string `yaml:"key"`
	SQLitePath  string `yaml:"sqlite_path"`
	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
}

func Default() Config {
	return Config{
		Port:     "8082",
		LogLevel: "info",
		Storage: StorageConfig{
			Backend:    kv.BackendMemory,
			Key:        "products",
			SQLitePath: "catalog.db",
		},
		WriteLimitPerMin: 60,
	}
}

// Load reads .env (if present), then the YAML file named by CATALOG_CONFIG
// (if set), then environment overrides, and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CATALOG_CONFIG"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Storage.Backend, "STORAGE_BACKEND")
	setString(&c.Storage.Key, "STORAGE_KEY")
	setString(&c.Storage.SQLitePath, "SQLITE_PATH")
	setString(&c.Storage.RedisURL, "REDIS_URL")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")
	setString(&c.MetricsToken, "METRICS_TOKEN")
	setString(&c.EditorJWTSecret, "EDITOR_JWT_SECRET")

	if v, ok := lookup("METRICS_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.MetricsEnabled = b
		}
	}
	if v, ok := lookup("WRITE_LIMIT_PER_MIN"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.WriteLimitPerMin = n
		}
	}
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case kv.BackendMemory:
	case kv.BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case kv.BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis backend")
		}
	case kv.BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Key == "" {
		return errors.New("storage key is empty")
	}
	if c.EditorJWTSecret != "" && len(c.EditorJWTSecret) < minSecretLen {
		return fmt.Errorf("EDITOR_JWT_SECRET must be at least %d chars", minSecretLen)
	}
	return nil
}

func (c Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:     c.Storage.Backend,
		SQLitePath:  c.Storage.SQLitePath,
		RedisURL:    c.Storage.RedisURL,
		DatabaseURL: c.Storage.DatabaseURL,
	}
}

func lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(k))
	return v, v != ""
}

func setString(dst *string, k string) {
	if v, ok := lookup(k); ok {
		*dst = v
	}
}
