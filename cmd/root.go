package cmd

import (
	"fmt"
	"os"

	"livestream-sync/core/config"
	"livestream-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configFile is the --config flag shared by all commands.
var configFile string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "livestream-sync",
	Short: "Keep YouTube live streams in sync with ChurchTools events",
	Long: `livestream-sync creates, updates and removes YouTube live broadcasts for
ChurchTools events according to their facts, links them back to the events,
maintains ChurchTools posts and publishes upcoming streams on the homepage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting
		// We default to console format to match user expectations (CLI tool)
		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			// Log the error with structured logger (Console encoding will make it pretty)
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (JSON or YAML, default ./"+config.DefaultConfigFile+" if present)")
}

// setup loads the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".", configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
