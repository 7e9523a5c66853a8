// Package config loads the tool configuration from .versioner/config.json.
package config

import (
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config is the complete versioner configuration.
type Config struct {
	// MatrixPath locates the compilation-matrix declaration file,
	// relative to the project root.
	MatrixPath string `json:"matrixPath" mapstructure:"matrixPath"`

	// BaselinePath locates the known-issues file. Missing file means no
	// suppressions.
	BaselinePath string `json:"baselinePath" mapstructure:"baselinePath"`

	// SnapshotPath is where `scan --snapshot` writes its SQLite snapshot.
	SnapshotPath string `json:"snapshotPath" mapstructure:"snapshotPath"`

	// Parallelism bounds the number of concurrent parse jobs.
	Parallelism int `json:"parallelism" mapstructure:"parallelism"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MatrixPath:   "versioner.toml",
		BaselinePath: ".versioner/baseline.toml",
		SnapshotPath: ".versioner/snapshot.db",
		Parallelism:  runtime.NumCPU(),
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.versioner/config.json,
// falling back to defaults when no config file exists.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("matrixPath", defaults.MatrixPath)
	v.SetDefault("baselinePath", defaults.BaselinePath)
	v.SetDefault("snapshotPath", defaults.SnapshotPath)
	v.SetDefault("parallelism", defaults.Parallelism)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".versioner"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.MatrixPath == "" {
		return &ConfigError{Field: "matrixPath", Message: "must not be empty"}
	}
	if c.Parallelism < 1 {
		return &ConfigError{Field: "parallelism", Message: "must be at least 1"}
	}
	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be 'human' or 'json'"}
	}
	return nil
}

// ConfigError describes an invalid configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
