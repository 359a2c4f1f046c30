package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/pmdash/internal/repository"
)

// KVStore implements repository.KVStore for SQLite
type KVStore struct {
	db *DB
}

// NewKVStore creates a new KVStore
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get retrieves the document stored under key
func (s *KVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Set inserts or replaces the document stored under key
func (s *KVStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// GetByPrefix returns every document whose key starts with prefix, in key order.
// The comparison is exact: LIKE would fold ASCII case and treat % and _ as wildcards.
func (s *KVStore) GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error) {
	query := `
		SELECT value
		FROM kv_store
		WHERE substr(key, 1, length(?1)) = ?1
		ORDER BY key
	`

	rows, err := s.db.QueryContext(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	var values []json.RawMessage
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, json.RawMessage(value))
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kv rows: %w", err)
	}

	return values, nil
}
