package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"salonbook/backend/internal/auth"
	"salonbook/backend/internal/config"
	"salonbook/backend/internal/logging"
	"salonbook/backend/internal/notify"
	"salonbook/backend/internal/service/bookings"
	"salonbook/backend/internal/store"
	"salonbook/backend/internal/store/cache"
	"salonbook/backend/internal/store/memory"
	"salonbook/backend/internal/store/mongostore"
	"salonbook/backend/internal/store/postgres"
	grpcTransport "salonbook/backend/internal/transport/grpc"
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booking gRPC server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	log.Info("starting",
		zap.String("grpc_addr", cfg.Addr()),
		zap.String("store_driver", cfg.StoreDriver),
		zap.String("overlap_policy", string(cfg.OverlapPolicy)),
		zap.String("log_level", cfg.LogLevel),
	)

	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var salons store.SalonRepository = st
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Warn("redis close failed", zap.Error(err))
			}
		}()
		salons = cache.NewSalonCache(st, rdb, cfg.SalonCacheTTL, log)
		log.Info("salon cache enabled", zap.String("redis_addr", cfg.RedisAddr), zap.Duration("ttl", cfg.SalonCacheTTL))
	}

	notifier, closeNotifier, err := openNotifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeNotifier()
	dispatcher := notify.NewDispatcher(notifier, cfg.NotifyTimeout, cfg.NotifyRatePerSec, log)

	svc := bookings.NewService(bookings.Repositories{Salons: salons, Staff: st, Bookings: st}, dispatcher, cfg.OverlapPolicy, log)
	grpcServer, hs := grpcTransport.NewServer(svc, tokens, grpcTransport.ServerOptions{
		RequestTimeout:    cfg.GRPCRequestTimeout,
		BookingRatePerMin: cfg.BookingRatePerMin,
		BookingRateBurst:  cfg.BookingRateBurst,
	}, log)

	lis, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("grpc listen on %s: %w", cfg.Addr(), err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	log.Info("grpc server started", zap.String("grpc_addr", cfg.Addr()))

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, grpcServer, hs, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("grpc server stopped with error", zap.Error(err))
			serveErr = err
		}
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		log.Warn("notification drain incomplete", zap.Error(err))
	}
	return serveErr
}

// openStore connects the configured store driver. The returned func closes
// it and logs failures.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := memory.New()
		if cfg.SeedFile != "" {
			if err := mem.LoadSeedFile(cfg.SeedFile); err != nil {
				return nil, nil, fmt.Errorf("seed %s: %w", cfg.SeedFile, err)
			}
			log.Info("memory store seeded", zap.String("seed_file", cfg.SeedFile))
		}
		return mem, func() {}, nil

	case config.DriverMongo:
		log.Info("connecting to mongo", zap.String("mongo_database", cfg.MongoDatabase))
		ms, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("mongo: %w", err)
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return ms, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ms.Close(closeCtx); err != nil {
				log.Warn("mongo close failed", zap.Error(err))
			}
		}, nil

	default:
		log.Info("connecting to database", logging.DatabaseFields(cfg.DatabaseURL)...)
		db, err := postgres.Open(ctx, cfg.DatabaseURL, poolConfig(cfg), log)
		if err != nil {
			log.Error("database connection failed", append(logging.DatabaseFields(cfg.DatabaseURL), zap.Error(err))...)
			return nil, nil, err
		}
		return postgres.NewBookingRepo(db), func() {
			if err := postgres.Close(db); err != nil {
				log.Warn("database close failed", zap.Error(err))
			}
		}, nil
	}
}

func poolConfig(cfg config.Config) postgres.PoolConfig {
	return postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		SlowQuery:       cfg.DBSlowQuery,
	}
}

func openNotifier(cfg config.Config, log *zap.Logger) (notify.Notifier, func(), error) {
	if cfg.AMQPURL == "" {
		log.Info("amqp not configured; notifications are logged only")
		return notify.NewLogNotifier(log), func() {}, nil
	}
	pub, err := notify.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue, log)
	if err != nil {
		return nil, nil, fmt.Errorf("amqp: %w", err)
	}
	return pub, func() {
		if err := pub.Close(); err != nil {
			log.Warn("amqp close failed", zap.Error(err))
		}
	}, nil
}

func shutdown(log *zap.Logger, s *grpc.Server, hs *health.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", zap.Duration("timeout", timeout))
	hs.Shutdown()

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}
