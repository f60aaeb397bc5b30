package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cwhuang-tw/linebot-gemini/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS histories (
    path TEXT PRIMARY KEY,
    turns TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// SQLite stores whole history blobs in a local database file. It exists
// so the relay can run without an external store; the contract is the
// same whole-value get/put/delete as the Firebase backend.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, path string) ([]models.Turn, bool, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, "SELECT turns FROM histories WHERE path = ?", path).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read history: %w", err)
	}

	var turns []models.Turn
	if err := json.Unmarshal([]byte(blob), &turns); err != nil {
		return nil, false, fmt.Errorf("failed to parse stored history: %w", err)
	}
	return turns, true, nil
}

func (s *SQLite) Put(ctx context.Context, path string, turns []models.Turn) error {
	blob, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO histories (path, turns, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(path) DO UPDATE SET turns = excluded.turns, updated_at = CURRENT_TIMESTAMP`,
		path, string(blob))
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM histories WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
