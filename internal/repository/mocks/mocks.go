package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// SlotRepository is a mock for repository.SlotRepository.
type SlotRepository struct {
	mock.Mock
}

func (m *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SlotRepository) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *SlotRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
