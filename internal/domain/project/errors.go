package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidCounter indicates a counter index other than 0 or 1.
	ErrInvalidCounter = errors.New("invalid counter index")
	// ErrDuplicateID indicates a caller-supplied ID that is already in use.
	ErrDuplicateID = errors.New("project id already exists")
)
