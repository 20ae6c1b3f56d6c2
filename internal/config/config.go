// Package config loads the batch job configuration from an optional YAML
// file overlaid with the environment variables the job has always been
// driven by (GITHUB_ORG, BATCH_SIZE, and friends).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
)

// Config is the full configuration of one batch run.
type Config struct {
	GitHubOrg     string `koanf:"github_org"`
	BatchSize     int    `koanf:"batch_size"`
	MaxRetries    int    `koanf:"max_retries"`
	GitHubToken   string `koanf:"github_token"`
	AWSSecretName string `koanf:"aws_secret_name"`
	AWSRegion     string `koanf:"aws_default_region"`
	Environment   string `koanf:"environment"`
	SourceBucket  string `koanf:"source_bucket"`
	SourceKey     string `koanf:"source_key"`
	OutputFile    string `koanf:"output_file"`
	LogLevel      string `koanf:"log_level"`
}

// envKeys maps the recognised environment variables to config keys. Anything
// else in the environment is ignored.
var envKeys = map[string]string{
	"GITHUB_ORG":         "github_org",
	"BATCH_SIZE":         "batch_size",
	"MAX_RETRIES":        "max_retries",
	"GITHUB_TOKEN":       "github_token",
	"AWS_SECRET_NAME":    "aws_secret_name",
	"AWS_DEFAULT_REGION": "aws_default_region",
	"ENVIRONMENT":        "environment",
	"SOURCE_BUCKET":      "source_bucket",
	"SOURCE_KEY":         "source_key",
	"OUTPUT_FILE":        "output_file",
	"LOG_LEVEL":          "log_level",
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:   30,
		MaxRetries:  5,
		AWSRegion:   "eu-west-2",
		Environment: "development",
		LogLevel:    "info",
	}
}

// Load reads configuration from the given YAML file if it exists, then
// overlays environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// Returning "" from the callback drops the variable.
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the job should publish to S3.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.GitHubOrg == "" {
		return fmt.Errorf("%w: github_org is required", domain.ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: max_retries must be positive", domain.ErrInvalidConfig)
	}
	if c.GitHubToken == "" && c.AWSSecretName == "" {
		return fmt.Errorf("%w: either github_token or aws_secret_name is required", domain.ErrInvalidConfig)
	}
	if c.IsProduction() && (c.SourceBucket == "" || c.SourceKey == "") {
		return fmt.Errorf("%w: source_bucket and source_key are required in production", domain.ErrInvalidConfig)
	}
	return nil
}
