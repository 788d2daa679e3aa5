package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AttemptRecord is one persisted connect attempt.
type AttemptRecord struct {
	UUID      uuid.UUID
	SessionID uuid.UUID
	Attempt   int
	Code      int
	Step      string
	CreatedAt time.Time
}

// AttemptStore keeps the connect history in postgres.
type AttemptStore struct {
	db *sql.DB
}

var _ AttemptRecorder = (*AttemptStore)(nil)

func NewAttemptStore(db *sql.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) RecordAttempt(ctx context.Context, rec AttemptRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if rec.UUID == uuid.Nil {
		rec.UUID = uuid.New()
	}
	query := `
        INSERT INTO connection_attempts (uuid, session_uuid, attempt, code, step, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.ExecContext(ctx, query, rec.UUID, rec.SessionID, rec.Attempt, rec.Code, rec.Step, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert connection attempt: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *AttemptStore) ListSessionAttempts(ctx context.Context, session uuid.UUID) ([]*AttemptRecord, error) {
	query := `
        SELECT uuid, session_uuid, attempt, code, step, created_at
        FROM connection_attempts
        WHERE session_uuid = $1
        ORDER BY attempt`

	return s.query(ctx, query, session)
}

// ListRecentAttempts returns the newest attempts first.
func (s *AttemptStore) ListRecentAttempts(ctx context.Context, limit int) ([]*AttemptRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	query := `
        SELECT uuid, session_uuid, attempt, code, step, created_at
        FROM connection_attempts
        ORDER BY created_at DESC
        LIMIT $1`

	return s.query(ctx, query, limit)
}

func (s *AttemptStore) query(ctx context.Context, query string, args ...any) ([]*AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection attempts: %w", err)
	}
	defer rows.Close()

	var result []*AttemptRecord

	for rows.Next() {
		var rec AttemptRecord
		if err := rows.Scan(&rec.UUID, &rec.SessionID, &rec.Attempt, &rec.Code, &rec.Step, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection attempt: %w", err)
		}
		result = append(result, &rec)
	}

	return result, rows.Err()
}
