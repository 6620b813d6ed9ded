package commands

import (
	"ecobloom/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables (postgres, sqlite) or indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx := cmd.Context()
		conn, err := database.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close(ctx)

		if err := conn.Migrate(ctx); err != nil {
			return err
		}
		log.Infow("migration complete", "driver", cfg.DBDriver)
		return nil
	},
}
