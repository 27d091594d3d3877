package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salonbook/backend/internal/notify"
)

func NewNotifierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifier",
		Short: "Consume booking notifications from AMQP and deliver them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cfg.AMQPURL == "" {
				return errors.New("amqp.url is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("notifier started", zap.String("queue", cfg.AMQPQueue))
			err = notify.NewConsumer(cfg.AMQPURL, cfg.AMQPQueue, notify.NewLogNotifier(log), log).Run(ctx)
			if errors.Is(err, context.Canceled) {
				log.Info("notifier stopped")
				return nil
			}
			return err
		},
	}
}
