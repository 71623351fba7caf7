package slot

import (
	"context"
	"fmt"

	"github.com/ganot/knitpick/internal/repository"
)

// DefaultMaxBytes matches the per-origin quota browsers give local storage.
const DefaultMaxBytes = 5 * 1024 * 1024

type limited struct {
	repository.SlotRepository
	maxBytes int64
}

// Limit wraps repo so that writes larger than maxBytes fail with
// repository.ErrQuotaExceeded. A non-positive maxBytes returns repo unchanged.
func Limit(repo repository.SlotRepository, maxBytes int64) repository.SlotRepository {
	if maxBytes <= 0 {
		return repo
	}
	return &limited{SlotRepository: repo, maxBytes: maxBytes}
}

func (l *limited) Put(ctx context.Context, key string, data []byte) error {
	if int64(len(data)) > l.maxBytes {
		return fmt.Errorf("slot %q: %d bytes over %d byte limit: %w", key, len(data), l.maxBytes, repository.ErrQuotaExceeded)
	}
	return l.SlotRepository.Put(ctx, key, data)
}
