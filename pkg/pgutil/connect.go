// Package pgutil opens the monitor's Postgres database and provides container-backed test helpers.
package pgutil

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/config"
)

const (
	initialConnectBackoff = 200 * time.Millisecond
	maxConnectBackoff     = 5 * time.Second
)

// ConnectDB opens a pooled connection and pings it, retrying with exponential backoff
// up to cfg.ConnectAttempts times.
func ConnectDB(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*bun.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// functional options escape special characters in credentials
	connector := pgdriver.NewConnector(
		pgdriver.WithNetwork("tcp"),
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Database),
		pgdriver.WithInsecure(cfg.SSLMode == "" || cfg.SSLMode == "disable"),
		pgdriver.WithDialTimeout(dialTimeout(cfg)),
		pgdriver.WithApplicationName("bridgewatch"),
	)

	sqldb := sql.OpenDB(connector)
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	db := bun.NewDB(sqldb, pgdialect.New())

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialConnectBackoff
	policy.MaxInterval = maxConnectBackoff
	policy.MaxElapsedTime = 0

	attempts := max(cfg.ConnectAttempts, 1)
	err := backoff.RetryNotify(
		func() error { return db.PingContext(ctx) },
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx),
		func(err error, wait time.Duration) {
			logger.Warn("Database not reachable yet, retrying",
				zap.String("database", cfg.Database),
				zap.Duration("wait", wait),
				zap.Error(err))
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Database, err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns))
	return db, nil
}

func dialTimeout(cfg *config.DatabaseConfig) time.Duration {
	if cfg.DialTimeout > 0 {
		return cfg.DialTimeout
	}
	return 5 * time.Second
}
