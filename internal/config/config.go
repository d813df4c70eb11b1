// Package config loads dataqa settings from the environment and an
// optional YAML file. Environment variables take precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. DATAQA_LOGGING_LEVEL.
const EnvPrefix = "DATAQA"

// DefaultFileName is looked up in the user's home directory when no
// config path is given.
const DefaultFileName = ".dataqa.yaml"

type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Fill    FillConfig    `yaml:"fill" envconfig:"FILL"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"warn" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

type InputConfig struct {
	NullTokens []string `yaml:"null_tokens" envconfig:"NULL_TOKENS" default:"NA,N/A,NaN,nan,null,NULL,None,#N/A"`
	Delimiter  string   `yaml:"delimiter" envconfig:"DELIMITER" default:"," validate:"len=1"`
	Sheet      string   `yaml:"sheet" envconfig:"SHEET"`
}

type FillConfig struct {
	Method  string `yaml:"method" envconfig:"METHOD" default:"mean" validate:"oneof=mean median mode constant"`
	Workers int    `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"gte=0"`
}

// Load reads configuration from the environment, fills gaps from the YAML
// file at path (or $HOME/.dataqa.yaml when path is empty) and validates
// the result. A missing default file is not an error; a missing explicit
// file is.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = defaultFilePath()
	}
	if path != "" {
		fileConfig, err := loadFromFile(path)
		switch {
		case err == nil:
			cfg = mergeConfigs(*fileConfig, cfg)
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// DelimiterRune returns the configured CSV delimiter.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Input.Delimiter {
		return r
	}
	return ','
}

func defaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultFileName)
}

func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs lets file values replace env defaults for every variable
// that was not set explicitly in the environment.
func mergeConfigs(fileConfig, envConfig Config) Config {
	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && !envSet("LOGGING_FORMAT") {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if len(fileConfig.Input.NullTokens) > 0 && !envSet("INPUT_NULL_TOKENS") {
		envConfig.Input.NullTokens = fileConfig.Input.NullTokens
	}
	if fileConfig.Input.Delimiter != "" && !envSet("INPUT_DELIMITER") {
		envConfig.Input.Delimiter = fileConfig.Input.Delimiter
	}
	if fileConfig.Input.Sheet != "" && !envSet("INPUT_SHEET") {
		envConfig.Input.Sheet = fileConfig.Input.Sheet
	}
	if fileConfig.Fill.Method != "" && !envSet("FILL_METHOD") {
		envConfig.Fill.Method = fileConfig.Fill.Method
	}
	if fileConfig.Fill.Workers != 0 && !envSet("FILL_WORKERS") {
		envConfig.Fill.Workers = fileConfig.Fill.Workers
	}
	return envConfig
}

func envSet(name string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + name)
	return ok
}
