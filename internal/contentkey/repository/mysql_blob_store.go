package repository

import (
	"context"
	"database/sql"
	"errors"

	contentkeyDomain "github.com/allisson/envelope/internal/contentkey/domain"
	apperrors "github.com/allisson/envelope/internal/errors"
)

// MySQLBlobStore stores values in the blobs table.
type MySQLBlobStore struct {
	db *sql.DB
}

// NewMySQLBlobStore creates a new MySQLBlobStore.
func NewMySQLBlobStore(db *sql.DB) *MySQLBlobStore {
	return &MySQLBlobStore{db: db}
}

// Get reads the value under store/key.
func (m *MySQLBlobStore) Get(ctx context.Context, store, key string) (string, error) {
	query := `SELECT value FROM blobs WHERE store = ? AND name = ?`

	var value string
	err := m.db.QueryRowContext(ctx, query, store, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", contentkeyDomain.ErrBlobNotFound
		}
		return "", apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return value, nil
}

// Put upserts the value under store/key in a single statement.
func (m *MySQLBlobStore) Put(ctx context.Context, store, key, value string) error {
	query := `INSERT INTO blobs (store, name, value) VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE value = VALUES(value)`

	if _, err := m.db.ExecContext(ctx, query, store, key, value); err != nil {
		return apperrors.Join(contentkeyDomain.ErrPersistenceFailure, err)
	}
	return nil
}
