package commands

import (
	"fmt"
	"os"

	"ecobloom/internal/config"
	"ecobloom/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd serves the API when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "ecobloom",
	Short: "EcoBloom plant store API",
	Long: `EcoBloom is the backend of a plant store: accounts with OTP email
verification, a plant catalogue tagged with categories, orders and a
contact inbox.

Settings are read from the environment and from a .env file when present.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// bootstrap loads the configuration and builds the logger.
func bootstrap() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.IsDevelopment())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}
