package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"edupay/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the document as one row in a documents table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.AppData, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE key = ?`, DocumentKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultData(), nil
	}
	if err != nil {
		return core.DefaultData(), fmt.Errorf("load document: %w", err)
	}
	return decodeDocument(ctx, body), nil
}

func (s *SQLiteStore) Save(ctx context.Context, data core.AppData) error {
	body, err := encodeDocument(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP`,
		DocumentKey, body)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	slog.InfoContext(ctx, "Document saved to SQLite",
		"key", DocumentKey,
		"students", len(data.Students),
		"payments", len(data.Payments),
		"sheet_no", data.SheetNo)
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
