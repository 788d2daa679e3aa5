package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"clamir/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const maxRetries = 10

// ConnectDB opens the postgres pool, retrying with a linearly growing delay.
func ConnectDB(ctx context.Context, cfg config.Config, log *zap.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	if log == nil {
		log = zap.NewNop()
	}

	var lastErr error
	for i := range maxRetries {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err = db.PingContext(ctx); err == nil {
			log.Info("database connection successful", zap.String("host", cfg.DBHost))

			db.SetMaxOpenConns(5)
			db.SetMaxIdleConns(2)
			db.SetConnMaxLifetime(5 * time.Minute)

			return db, nil
		}
		lastErr = err
		db.Close()

		delay := time.Duration(i+1) * time.Second
		log.Warn("error pinging database, retrying",
			zap.Error(err),
			zap.Int("attempt", i+1),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database connect cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, lastErr)
}

const schema = `
CREATE TABLE IF NOT EXISTS connection_attempts (
    uuid         UUID PRIMARY KEY,
    session_uuid UUID NOT NULL,
    attempt      INTEGER NOT NULL,
    code         INTEGER NOT NULL,
    step         TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS connection_attempts_session_idx ON connection_attempts (session_uuid);`

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
