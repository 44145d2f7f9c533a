// ABOUTME: SQLite storage for the sent-notification log.
// ABOUTME: Records every dispatched notification for later querying.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle for the sent log.
type Store struct {
	sql *sql.DB
}

// SentRecord mirrors the sent table schema.
type SentRecord struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Title     string    `json:"title,omitempty"`
	Device    string    `json:"device,omitempty"`
	Priority  int       `json:"priority"`
	RequestID string    `json:"request_id,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

// Open creates (if necessary) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("configuring sqlite: %w", err)
	}

	store := &Store{sql: conn}
	if err := store.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying SQL handle.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sent (
            id INTEGER PRIMARY KEY,
            message TEXT NOT NULL,
            title TEXT,
            device TEXT,
            priority INTEGER DEFAULT 0,
            request_id TEXT,
            sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_sent_sent_at ON sent(sent_at);`,
	}

	for _, stmt := range stmts {
		if _, err := s.sql.Exec(stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	return nil
}

// LogSent persists a sent-notification entry.
func (s *Store) LogSent(ctx context.Context, rec SentRecord) error {
	if s == nil || s.sql == nil {
		return errors.New("database not initialized")
	}

	sentAt := rec.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO sent (message, title, device, priority, request_id, sent_at) VALUES (?, ?, ?, ?, ?, ?);`,
		rec.Message,
		rec.Title,
		rec.Device,
		rec.Priority,
		rec.RequestID,
		sentAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert sent record: %w", err)
	}
	return nil
}

// QuerySent returns logged notifications, newest first, applying the
// optional filters.
func (s *Store) QuerySent(ctx context.Context, limit int, since *time.Time, search string) ([]SentRecord, error) {
	if s == nil || s.sql == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	clauses := []string{"1=1"}
	args := []interface{}{}

	if since != nil && !since.IsZero() {
		clauses = append(clauses, "sent_at >= ?")
		args = append(args, since.UTC())
	}

	if search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		clauses = append(clauses, "(message LIKE ? OR title LIKE ?)")
		args = append(args, like, like)
	}

	query := fmt.Sprintf(`SELECT id, message, title, device, priority, request_id, sent_at
        FROM sent
        WHERE %s
        ORDER BY sent_at DESC
        LIMIT ?;`, strings.Join(clauses, " AND "))
	args = append(args, limit)

	rows, err := s.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sent log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SentRecord
	for rows.Next() {
		var rec SentRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Message,
			&rec.Title,
			&rec.Device,
			&rec.Priority,
			&rec.RequestID,
			&rec.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scan sent log: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sent log: %w", err)
	}

	return results, nil
}
