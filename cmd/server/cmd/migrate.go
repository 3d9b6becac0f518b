package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/event-dashboard-api/internal/config"
	"github.com/yukikurage/event-dashboard-api/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run the schema migrations against the database selected by DB_DRIVER.
The serve command migrates on start as well; use this to prepare a database
ahead of a deployment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if cfg.Database.Driver == "memory" {
			return fmt.Errorf("the memory driver has no schema to migrate")
		}

		logger := config.NewLogger(cfg.Logging)
		db, err := database.Connect(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		return database.Migrate(db, logger)
	},
}
