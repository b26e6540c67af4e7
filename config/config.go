package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Generator GeneratorConfig `yaml:"generator"`
	Upload    UploadConfig    `yaml:"upload"`
	Retention RetentionConfig `yaml:"retention"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// CacheTTL returns the response cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// GeneratorConfig bounds batch generation requests.
type GeneratorConfig struct {
	MaxCount      int    `yaml:"max_count"`
	DefaultHeader string `yaml:"default_header"`
}

// UploadConfig bounds .bingoCards imports.
type UploadConfig struct {
	MaxBytes int `yaml:"max_bytes"`
}

// RetentionConfig controls the sweeper that discards old games.
type RetentionConfig struct {
	Enabled         bool          `yaml:"enabled"`
	MaxAgeHours     int           `yaml:"max_age_hours"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	MaxAge          time.Duration `yaml:"-"`
	Interval        time.Duration `yaml:"-"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads the configuration from the given path and applies defaults.
// DATABASE_DSN in the environment overrides database.dsn.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset values.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:bingo.db"
	}

	if cfg.Generator.MaxCount <= 0 {
		cfg.Generator.MaxCount = 10000
	}
	if cfg.Generator.DefaultHeader == "" {
		cfg.Generator.DefaultHeader = "Bingo"
	}

	if cfg.Upload.MaxBytes <= 0 {
		cfg.Upload.MaxBytes = 1 << 20
	}

	if cfg.Retention.MaxAgeHours <= 0 {
		cfg.Retention.MaxAgeHours = 720
	}
	if cfg.Retention.IntervalSeconds <= 0 {
		cfg.Retention.IntervalSeconds = 3600
	}
	cfg.Retention.MaxAge = time.Duration(cfg.Retention.MaxAgeHours) * time.Hour
	cfg.Retention.Interval = time.Duration(cfg.Retention.IntervalSeconds) * time.Second

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
