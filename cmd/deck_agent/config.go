package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/campaign-deck/internal/config"
	"github.com/jonathan/campaign-deck/internal/logging"
)

// loadConfig resolves the effective configuration for a command:
// the config file first, then environment variables, then flags the user
// explicitly set, and finally defaults for anything still empty.
func loadConfig(configPath string, defaults config.Config, override func(*config.Config)) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if configPath != "" {
		loadedCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loadedCfg
	}

	// Step 2: Environment (GEMINI_API_KEY, MINIO_*)
	cfg.ApplyEnv(nil)

	// Step 3: Apply CLI overrides (only flags that were explicitly set)
	if override != nil {
		override(&cfg)
	}

	// Step 4: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(defaults)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the zap-backed logger; --verbose lowers the level to debug
func newLogger(cfg config.Config) logging.Logger {
	zc := cfg.Logger.Zap()
	if cfg.Verbose {
		zc.Level = "debug"
	}
	return logging.Init(zc)
}

// commandContext returns the context the command was executed with
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
