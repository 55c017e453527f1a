package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/campaign-deck/internal/config"
	"github.com/jonathan/campaign-deck/internal/logging"
	"github.com/jonathan/campaign-deck/internal/server"
	"github.com/jonathan/campaign-deck/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes deck assembly, validation, drafting and scheme listing as REST endpoints.`,
	RunE:  runServe,
}

var (
	serveConfigPath  string
	servePort        int
	serveConcurrency int
	serveMaxBody     int64
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().IntVar(&serveConcurrency, "concurrency", 0, "Slides rendered at once per request (0 = GOMAXPROCS)")
	serveCmd.Flags().Int64Var(&serveMaxBody, "max-body", server.DefaultMaxBodyBytes, "Largest accepted request body in bytes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)

	defaults := config.Config{Port: servePort, Concurrency: serveConcurrency}
	cfg, err := loadConfig(serveConfigPath, defaults, func(c *config.Config) {
		if cmd.Flags().Changed("port") {
			c.Port = servePort
		}
		if cmd.Flags().Changed("concurrency") {
			c.Concurrency = serveConcurrency
		}
	})
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer log.Sync() //nolint:errcheck

	srv, err := server.New(ctx, serverConfig(cfg, log))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}

// serverConfig maps the resolved CLI configuration onto the server's
func serverConfig(cfg config.Config, log logging.Logger) server.Config {
	rl := ratelimit.LoadConfig(nil)
	rl.SetRenderLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)

	return server.Config{
		Port:        cfg.Port,
		APIKey:      cfg.APIKey,
		Concurrency: cfg.Concurrency,
		MaxBodySize: serveMaxBody,
		ObjectStore: cfg.ObjectStore.Delivery(),
		RateLimit:   rl,
		Logger:      log,
	}
}
