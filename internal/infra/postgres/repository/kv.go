package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quran-reader-bot/internal/infra/postgres"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

// KVRepository stores key-value records in the kv_store table.
type KVRepository struct {
	db postgres.DBTX
}

// NewKVRepository creates a new KVRepository with the provided database pool.
func NewKVRepository(db postgres.DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key or storage.ErrKeyNotFound.
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	query := "SELECT value FROM kv_store WHERE key = $1"

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrKeyNotFound
		}
		return "", fmt.Errorf("get value: %w", err)
	}

	return value, nil
}

// Set inserts or replaces the value stored under key.
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set value: %w", err)
	}

	return nil
}

// Remove deletes the value stored under key. Removing a missing key is not an error.
func (r *KVRepository) Remove(ctx context.Context, key string) error {
	query := "DELETE FROM kv_store WHERE key = $1"

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("remove value: %w", err)
	}

	return nil
}
