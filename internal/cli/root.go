package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salonbook/backend/internal/config"
	"salonbook/backend/internal/logging"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salonbook-server",
		Short:         "Salon booking scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewNotifierCmd())
	cmd.AddCommand(NewTokenCmd())
	return cmd
}

// setup loads configuration and builds the process logger shared by every
// command.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
