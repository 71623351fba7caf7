package repository

import "errors"

var (
	// ErrNotFound is returned when a requested slot doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded is returned when a write would exceed the storage quota
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidKey is returned when a slot key is empty or not representable by the backend
	ErrInvalidKey = errors.New("invalid slot key")
)
