package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/lernkarten-api/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		slog.SetDefault(config.NewLogger(cfg.Mode, os.Stderr))

		db, err := config.OpenDatabase(cfg.DB, cfg.Mode)
		if err != nil {
			return err
		}
		return config.Migrate(db)
	},
}
