package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/knitpick/internal/repository"
)

// SlotRepository implements repository.SlotRepository for SQLite
type SlotRepository struct {
	db *DB
}

// NewSlotRepository creates a new SlotRepository
func NewSlotRepository(db *DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Get retrieves the value stored under key
func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, repository.ErrInvalidKey
	}

	query := `
		SELECT value
		FROM slots
		WHERE key = ?
	`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}

	return data, nil
}

// Put inserts or replaces the value stored under key
func (r *SlotRepository) Put(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return repository.ErrInvalidKey
	}
	if data == nil {
		data = []byte{}
	}

	query := `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to put slot: %w", err)
	}

	return nil
}

// Delete removes the slot stored under key
func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return repository.ErrInvalidKey
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}

	return nil
}
