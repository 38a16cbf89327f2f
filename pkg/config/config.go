package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the ETL pipeline.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the database password) must only come from environment variables.
type Config struct {
	Env string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Pipeline configuration (input directories, error policy, matching)
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"student"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sparkifydb"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"5"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// Error policy values for PipelineConfig.OnError.
const (
	OnErrorAbort    = "abort"
	OnErrorContinue = "continue"
)

// PipelineConfig holds input discovery and load behavior settings.
type PipelineConfig struct {
	// SongDataDir is the root directory of song catalog files.
	SongDataDir string `yaml:"song_data_dir" env:"SONG_DATA_DIR" env-default:"data/song_data"`
	// LogDataDir is the root directory of user activity log files.
	LogDataDir string `yaml:"log_data_dir" env:"LOG_DATA_DIR" env-default:"data/log_data"`
	// FileExt is the extension input files are discovered by.
	FileExt string `yaml:"file_ext" env:"FILE_EXT" env-default:".json"`
	// OnError decides whether a failed file aborts the run ("abort") or
	// the driver moves on to the next file ("continue").
	OnError string `yaml:"on_error" env:"ON_ERROR" env-default:"abort"`
	// MatchToleranceSeconds is the duration tolerance used when resolving
	// an activity record's (song, artist, length) triple against the
	// catalog. Reported and stored durations may differ by float noise.
	MatchToleranceSeconds float64 `yaml:"match_tolerance_seconds" env:"MATCH_TOLERANCE_SECONDS" env-default:"0.5"`
	// MigrationsPath is the directory holding schema migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml does not exist, configuration comes from the
// environment alone.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.Pipeline.validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	return cfg, nil
}

func (c *PipelineConfig) validate() error {
	switch c.OnError {
	case OnErrorAbort, OnErrorContinue:
	default:
		return fmt.Errorf("on_error must be %q or %q, got %q", OnErrorAbort, OnErrorContinue, c.OnError)
	}
	if c.MatchToleranceSeconds < 0 {
		return fmt.Errorf("match_tolerance_seconds must not be negative")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
