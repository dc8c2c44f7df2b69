// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment variables read by FromEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvRules       = "RESUME_PARSER_RULES"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// DefaultMaxUploadBytes caps uploaded documents at 5 MB.
const DefaultMaxUploadBytes int64 = 5 << 20

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from flags
// and the environment.
type Config struct {
	// Rules
	Rules      string `json:"rules,omitempty"`                                      // Path to a rule table YAML file
	NameWindow int    `json:"name_window,omitempty" validate:"omitempty,min=1,max=20"` // Paragraphs scanned for the candidate name

	// Output
	Out  string `json:"out,omitempty"`  // Directory for JSON results
	XLSX string `json:"xlsx,omitempty"` // Spreadsheet export path

	// Batch
	Concurrency int `json:"concurrency,omitempty" validate:"omitempty,min=1,max=64"` // Documents parsed in parallel

	// Server
	Port           int   `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty" validate:"omitempty,min=1"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // postgres:// URL or sqlite path

	// Logging
	LogLevel  string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=json pretty"`
	Verbose   bool   `json:"verbose,omitempty"` // Print box-formatted summaries
}

// validate reports fields by their JSON key.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Concurrency:    4,
		Port:           8080,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// FromEnv reads the supported environment variables. Unset variables leave
// fields empty so they can be merged.
func FromEnv() Config {
	return Config{
		DatabaseURL: strings.TrimSpace(os.Getenv(EnvDatabaseURL)),
		Rules:       strings.TrimSpace(os.Getenv(EnvRules)),
		LogLevel:    strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))),
		LogFormat:   strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))),
	}
}

// Resolve layers the environment over an optional config file over the
// defaults. Flags are applied by the caller on top of the result.
func Resolve(file *Config) Config {
	base := Defaults()
	if file != nil {
		base = file.MergeWithDefaults(base)
	}
	env := FromEnv()
	return env.MergeWithDefaults(base)
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Rules != "" {
		if _, err := os.Stat(c.Rules); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.Rules)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Rules == "" {
		result.Rules = defaults.Rules
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.XLSX == "" {
		result.XLSX = defaults.XLSX
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Numeric fields: use default if zero
	if result.NameWindow == 0 {
		result.NameWindow = defaults.NameWindow
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	// Bool fields cannot distinguish unset from false; either layer may enable.
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}
