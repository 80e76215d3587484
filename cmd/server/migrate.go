package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			if cfg.DBDriver == config.DriverMemory {
				return errors.New("migrate: DB_DRIVER=memory has no schema")
			}

			db, err := database.Open(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db); err != nil {
				return err
			}
			logger.Info("migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}
