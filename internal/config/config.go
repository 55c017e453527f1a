// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/campaign-deck/internal/delivery"
	"github.com/jonathan/campaign-deck/internal/logging"
)

// Defaults applied by MergeWithDefaults when neither the file nor the flags set a value
const (
	DefaultOutputDir = "."
	DefaultLanguage  = "en"
	DefaultPort      = 8080
	DefaultLogLevel  = "info"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir,omitempty"` // Directory decks are written to
	ImagesDir string `json:"images_dir,omitempty"` // Directory uploaded images are read from

	// Rendering
	Language    string `json:"language,omitempty" validate:"omitempty,oneof=en es"` // Default deck language
	Concurrency int    `json:"concurrency,omitempty" validate:"gte=0,lte=64"`       // Slides rendered at once (0 = GOMAXPROCS)

	// Behavior
	APIKey  string `json:"api_key,omitempty"` // Gemini API key used by the draft command
	Verbose bool   `json:"verbose,omitempty"` // Print detailed debug information

	// Server
	Port           int     `json:"port,omitempty" validate:"gte=0,lte=65535"`
	RateLimitRPS   float64 `json:"rate_limit_rps,omitempty" validate:"gte=0"`
	RateLimitBurst int     `json:"rate_limit_burst,omitempty" validate:"gte=0"`

	Logger      LoggerConfig      `json:"logger"`
	ObjectStore ObjectStoreConfig `json:"object_store"`
}

// LoggerConfig selects the zap level, mode and encoding
type LoggerConfig struct {
	Level    string `json:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Mode     string `json:"mode,omitempty" validate:"omitempty,oneof=development production"`
	Encoding string `json:"encoding,omitempty" validate:"omitempty,oneof=console json"`
}

// ObjectStoreConfig is the on-disk form of the object storage delivery settings
type ObjectStoreConfig struct {
	Endpoint  string `json:"endpoint,omitempty" validate:"required_with=Bucket"`
	AccessKey string `json:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty"`
	Bucket    string `json:"bucket,omitempty" validate:"required_with=Endpoint"`
	Region    string `json:"region,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	UseSSL    bool   `json:"use_ssl,omitempty"`
	LinkTTL   string `json:"link_ttl,omitempty"` // e.g. "15m"; empty disables presigned links
}

var validate = validator.New(validator.WithRequiredStructEnabled())

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
// Required fields are not checked here since those are handled by CLI flag
// validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.ObjectStore.LinkTTL != "" {
		if _, err := time.ParseDuration(c.ObjectStore.LinkTTL); err != nil {
			return fmt.Errorf("config error: invalid 'object_store.link_ttl': %w", err)
		}
	}

	// Validate directories exist (if specified)
	if c.ImagesDir != "" {
		info, err := os.Stat(c.ImagesDir)
		if err != nil {
			return fmt.Errorf("config error: images directory not found: %s", c.ImagesDir)
		}
		if !info.IsDir() {
			return fmt.Errorf("config error: images path is not a directory: %s", c.ImagesDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.ImagesDir == "" {
		result.ImagesDir = defaults.ImagesDir
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Logger.Level == "" {
		result.Logger.Level = defaults.Logger.Level
	}
	if result.Logger.Mode == "" {
		result.Logger.Mode = defaults.Logger.Mode
	}
	if result.Logger.Encoding == "" {
		result.Logger.Encoding = defaults.Logger.Encoding
	}
	if result.ObjectStore.Endpoint == "" && result.ObjectStore.Bucket == "" {
		result.ObjectStore = defaults.ObjectStore
	}

	// Int fields: use default if zero
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RateLimitBurst == 0 {
		result.RateLimitBurst = defaults.RateLimitBurst
	}
	if result.RateLimitRPS == 0 {
		result.RateLimitRPS = defaults.RateLimitRPS
	}

	// Final fallbacks
	if result.OutputDir == "" {
		result.OutputDir = DefaultOutputDir
	}
	if result.Language == "" {
		result.Language = DefaultLanguage
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.Logger.Level == "" {
		result.Logger.Level = DefaultLogLevel
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overlays GEMINI_API_KEY and the MINIO_* variables onto the config.
// Environment values win over the file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}

	store := &c.ObjectStore
	if v := getenv("MINIO_ENDPOINT"); v != "" {
		store.Endpoint = v
	}
	if v := getenv("MINIO_ACCESS_KEY"); v != "" {
		store.AccessKey = v
	}
	if v := getenv("MINIO_SECRET_KEY"); v != "" {
		store.SecretKey = v
	}
	if v := getenv("MINIO_BUCKET"); v != "" {
		store.Bucket = v
	}
	if v := getenv("MINIO_REGION"); v != "" {
		store.Region = v
	}
	if v := getenv("MINIO_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			store.UseSSL = b
		}
	}
}

// Delivery converts the object store section to the deliverer's config
func (o ObjectStoreConfig) Delivery() delivery.ObjectStoreConfig {
	ttl, _ := time.ParseDuration(o.LinkTTL)
	return delivery.ObjectStoreConfig{
		Endpoint:  o.Endpoint,
		AccessKey: o.AccessKey,
		SecretKey: o.SecretKey,
		Bucket:    o.Bucket,
		Region:    o.Region,
		Prefix:    o.Prefix,
		UseSSL:    o.UseSSL,
		LinkTTL:   ttl,
	}
}

// Zap converts the logger section to the logging backend config
func (l LoggerConfig) Zap() logging.ZapConfig {
	return logging.ZapConfig{Level: l.Level, Mode: l.Mode, Encoding: l.Encoding}
}
