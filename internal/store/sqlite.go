package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// SQLiteArchive implements TranscriptArchive using SQLite.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive creates a SQLite-backed transcript archive.
func NewSQLiteArchive(dbPath string) (*SQLiteArchive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	archive := &SQLiteArchive{db: db}
	if err := archive.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return archive, nil
}

func (a *SQLiteArchive) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS completed_sessions (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		context_json TEXT NOT NULL,
		answers_json TEXT NOT NULL,
		tokens_used INTEGER NOT NULL,
		estimated_cost REAL NOT NULL,
		completed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_completed_user ON completed_sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_completed_at ON completed_sessions(completed_at);
	`
	if _, err := a.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (a *SQLiteArchive) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

// SaveCompleted stores a completed session, replacing any previous record
// for the same session ID.
func (a *SQLiteArchive) SaveCompleted(ctx context.Context, userID string, entry *domain.SessionEntry) error {
	contextJSON, err := json.Marshal(entry.Context)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	answersJSON, err := json.Marshal(entry.AnswerHistory)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	query := `
	INSERT INTO completed_sessions (session_id, user_id, context_json, answers_json, tokens_used, estimated_cost, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		user_id = excluded.user_id,
		context_json = excluded.context_json,
		answers_json = excluded.answers_json,
		tokens_used = excluded.tokens_used,
		estimated_cost = excluded.estimated_cost,
		completed_at = excluded.completed_at`

	_, err = a.db.ExecContext(ctx, query,
		entry.ID, userID, string(contextJSON), string(answersJSON),
		entry.TokensUsed, entry.EstimatedCost, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert completed session: %w", err)
	}
	return nil
}

// GetCompleted retrieves an archived session by session ID.
func (a *SQLiteArchive) GetCompleted(ctx context.Context, sessionID string) (*CompletedSession, error) {
	query := `
		SELECT session_id, user_id, context_json, answers_json, tokens_used, estimated_cost, completed_at
		FROM completed_sessions WHERE session_id = ?`

	row := a.db.QueryRowContext(ctx, query, sessionID)

	var cs CompletedSession
	var completedAt int64

	err := row.Scan(
		&cs.SessionID, &cs.UserID, &cs.ContextJSON, &cs.AnswersJSON,
		&cs.TokensUsed, &cs.EstimatedCost, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan completed session: %w", err)
	}

	cs.CompletedAt = time.Unix(completedAt, 0)
	return &cs, nil
}

// SweepOlderThan removes archived sessions completed before the cutoff.
func (a *SQLiteArchive) SweepOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := a.db.ExecContext(ctx,
		`DELETE FROM completed_sessions WHERE completed_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("sweep completed sessions: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the database connection.
func (a *SQLiteArchive) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

var _ TranscriptArchive = (*SQLiteArchive)(nil)
