package sqlite

import (
	"context"
	"testing"

	"github.com/ganot/knitpick/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestSlotRepository_PutGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	err := repo.Put(ctx, "knitpicking-projects", []byte(`[{"id":"1","name":"Winter Scarf"}]`))
	require.NoError(t, err)

	data, err := repo.Get(ctx, "knitpicking-projects")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"1","name":"Winter Scarf"}]`, string(data))
}

func TestSlotRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotRepository_Upsert(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []byte(`[]`)))
	require.NoError(t, repo.Put(ctx, "k", []byte(`[{"id":"2"}]`)))

	data, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"2"}]`, string(data))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestSlotRepository_EmptyValue(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", nil))
	data, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestSlotRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []byte(`[]`)))
	require.NoError(t, repo.Delete(ctx, "k"))

	_, err := repo.Get(ctx, "k")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "k"), "deleting a missing slot is not an error")
}

func TestSlotRepository_InvalidKey(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSlotRepository(db)
	ctx := context.Background()

	require.ErrorIs(t, repo.Put(ctx, "", []byte(`x`)), repository.ErrInvalidKey)
	_, err := repo.Get(ctx, "")
	require.ErrorIs(t, err, repository.ErrInvalidKey)
}
