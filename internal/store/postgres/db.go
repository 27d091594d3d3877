package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"go.uber.org/zap"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// SlowQuery is the duration above which a query is logged as a warning.
	SlowQuery       time.Duration
}

// Open connects through the pgx stdlib driver and verifies the connection
// before handing back a bun handle. Queries are logged through log.
func Open(ctx context.Context, databaseURL string, pool PoolConfig, log *zap.Logger) (*bun.DB, error) {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	db := bun.NewDB(sqlDB, pgdialect.New())
	if log != nil {
		db.AddQueryHook(newQueryLogger(log, pool.SlowQuery))
	}
	return db, nil
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

type queryLogger struct {
	log  *zap.Logger
	slow time.Duration
}

func newQueryLogger(log *zap.Logger, slow time.Duration) *queryLogger {
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return &queryLogger{log: log.With(zap.String("component", "postgres")), slow: slow}
}

func (q *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (q *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.Duration("elapsed", elapsed),
	}
	switch {
	case event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows):
		q.log.Debug("query failed", append(fields, zap.Error(event.Err))...)
	case elapsed >= q.slow:
		q.log.Warn("slow query", append(fields, zap.String("query", event.Query))...)
	default:
		q.log.Debug("query", fields...)
	}
}
