package kvstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// PostgresStore implements KV on a single key-value table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Postgres-backed store and ensures its table exists
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// Get reads the value for key
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM collections WHERE key = $1`
	err := s.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

// Set writes the value for key
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO collections (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

// Delete removes the value for key
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM collections WHERE key = $1`
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}
