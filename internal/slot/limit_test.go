package slot

import (
	"context"
	"testing"

	"github.com/ganot/knitpick/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestLimit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	repo := Limit(mem, 4)

	require.NoError(t, repo.Put(ctx, "k", []byte(`1234`)))

	err := repo.Put(ctx, "k", []byte(`12345`))
	require.ErrorIs(t, err, repository.ErrQuotaExceeded)

	// the rejected write never reached the backend
	data, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `1234`, string(data))
}

func TestLimit_Disabled(t *testing.T) {
	mem := NewMemory()
	require.Same(t, mem, Limit(mem, 0))
}
