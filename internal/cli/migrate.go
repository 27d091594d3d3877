package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salonbook/backend/internal/logging"
	"salonbook/backend/internal/store/postgres"
	"salonbook/backend/migrations"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			log.Info("connecting to database", logging.DatabaseFields(cfg.DatabaseURL)...)
			db, err := postgres.Open(ctx, cfg.DatabaseURL, poolConfig(cfg), log)
			if err != nil {
				return err
			}
			defer func() { _ = postgres.Close(db) }()

			applied, err := postgres.Migrate(ctx, db, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				log.Info("schema up to date")
				return nil
			}
			for _, name := range applied {
				log.Info("migration applied", zap.String("migration", name))
			}
			return nil
		},
	}
}
