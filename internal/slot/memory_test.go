package slot

import (
	"context"
	"testing"

	"github.com/ganot/knitpick/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestMemory_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	_, err := repo.Get(ctx, "projects")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "projects", []byte(`[]`)))
	data, err := repo.Get(ctx, "projects")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))

	require.NoError(t, repo.Delete(ctx, "projects"))
	_, err = repo.Get(ctx, "projects")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// deleting again is fine
	require.NoError(t, repo.Delete(ctx, "projects"))
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	in := []byte(`[1]`)
	require.NoError(t, repo.Put(ctx, "k", in))
	in[1] = '2'

	out, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `[1]`, string(out))

	out[1] = '3'
	again, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `[1]`, string(again))
}

func TestMemory_EmptyKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	require.ErrorIs(t, repo.Put(ctx, "", nil), repository.ErrInvalidKey)
	_, err := repo.Get(ctx, "")
	require.ErrorIs(t, err, repository.ErrInvalidKey)
	require.ErrorIs(t, repo.Delete(ctx, ""), repository.ErrInvalidKey)
}
