// Package postgres owns the connection pool and the explicit transaction
// handle shared by every repository. Transactions are always passed in by the
// caller; there is no ambient per-request session.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/matheusmosca/orders-api/internal/config"
)

// Tx is the transaction handle carried through repository calls.
type Tx interface {
	Commit() error
	Rollback() error
}

// PgTx implements Tx on top of a pgx transaction.
type PgTx struct {
	Tx pgx.Tx
}

func (t *PgTx) Commit() error {
	return t.Tx.Commit(context.Background())
}

func (t *PgTx) Rollback() error {
	return t.Tx.Rollback(context.Background())
}

// Unwrap extracts the underlying pgx transaction from a Tx handle.
// Repositories call it to run statements inside the caller's transaction.
func Unwrap(tx Tx) pgx.Tx {
	return tx.(*PgTx).Tx
}

// NewPool builds the pgx connection pool and waits for the database to
// accept connections.
func NewPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Wait for database to be ready
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			log.Info().Msg("✅ Connected to database with connection pool")
			return pool, nil
		}
		log.Info().Msgf("⏳ Waiting for database... (%d/30)", i+1)
		time.Sleep(1 * time.Second)
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after 30 attempts")
}
