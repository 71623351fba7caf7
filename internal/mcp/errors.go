package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/knitpick/internal/domain/project"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// it does not know.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "project name is required"}
	case errors.Is(err, project.ErrInvalidCounter):
		return &APIError{Code: "INVALID_COUNTER", Message: "counter must be 0 or 1"}
	case errors.Is(err, project.ErrDuplicateID):
		return &APIError{Code: "DUPLICATE_ID", Message: "a project with this id already exists", RecoveryHint: "Omit id to have one generated"}
	default:
		return nil
	}
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
