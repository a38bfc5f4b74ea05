package repository

import (
	"context"
	"database/sql"
	"errors"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	apperrors "github.com/allisson/envelope/internal/errors"
)

// PostgreSQLBlobStore stores values in the blobs table.
//
// Database schema requirements:
//   - store: VARCHAR(255)
//   - name: VARCHAR(255)
//   - value: TEXT
//   - updated_at: TIMESTAMP WITH TIME ZONE
//   - PRIMARY KEY (store, name)
type PostgreSQLBlobStore struct {
	db *sql.DB
}

// NewPostgreSQLBlobStore creates a new PostgreSQLBlobStore.
func NewPostgreSQLBlobStore(db *sql.DB) *PostgreSQLBlobStore {
	return &PostgreSQLBlobStore{db: db}
}

// Get reads the value under store/key.
func (p *PostgreSQLBlobStore) Get(ctx context.Context, store, key string) (string, error) {
	query := `SELECT value FROM blobs WHERE store = $1 AND name = $2`

	var value string
	err := p.db.QueryRowContext(ctx, query, store, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", contentkeyDomain.ErrBlobNotFound
		}
		return "", apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return value, nil
}

// Put upserts the value under store/key in a single statement.
func (p *PostgreSQLBlobStore) Put(ctx context.Context, store, key, value string) error {
	query := `INSERT INTO blobs (store, name, value, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (store, name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, query, store, key, value); err != nil {
		return apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return nil
}
