package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	FTDB     FTDBConfig     `mapstructure:"ftdb"`
	Output   OutputConfig   `mapstructure:"output"`
	Database DatabaseConfig `mapstructure:"database"`
}

// FTDBConfig holds ft-datenbank API configuration
type FTDBConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxWorkers           int    `mapstructure:"max_workers"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`

	// KitCategory is the drill facet selecting construction kits,
	// ExcludedCategory filters listed tickets back out (fischertip kits).
	KitCategory      string `mapstructure:"kit_category"`
	ExcludedCategory string `mapstructure:"excluded_category"`
}

// OutputConfig holds snapshot output configuration
type OutputConfig struct {
	// Path of the dump file; empty means ftdb-dump-<date>.json in the
	// working directory.
	Path string `mapstructure:"path"`
}

// DatabaseConfig holds the optional Postgres archive configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config.yaml is fine, the defaults cover every key.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("ftdb.base_url", "https://ft-datenbank.de")
	viper.SetDefault("ftdb.timeout", 30)
	viper.SetDefault("ftdb.max_retries", 3)
	viper.SetDefault("ftdb.max_workers", 1)
	viper.SetDefault("ftdb.max_requests_per_second", 5)
	viper.SetDefault("ftdb.kit_category", "653")
	viper.SetDefault("ftdb.excluded_category", "661")

	viper.SetDefault("output.path", "")

	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "ftdb")
	viper.SetDefault("database.user", "ftdb_user")
	viper.SetDefault("database.password", "ftdb_pass")
}
