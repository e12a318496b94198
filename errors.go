package loudml

import (
	"errors"
	"fmt"
)

// Sentinel errors for model storage operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrModelNotFound indicates no model with the given name is persisted.
	ErrModelNotFound = errors.New("loudml: model not found")

	// ErrModelExists indicates a model with the given name is already persisted.
	// Callers wanting upsert semantics must delete then create.
	ErrModelExists = errors.New("loudml: model already exists")

	// ErrUnsupportedModelType indicates the model type tag has no registered decoder.
	// Returned by LoadModel, never by GetModelData.
	ErrUnsupportedModelType = errors.New("loudml: unsupported model type")

	// ErrValidation indicates malformed or missing model settings.
	// Concrete failures are reported as *ValidationError.
	ErrValidation = errors.New("loudml: invalid model settings")

	// ErrStorageError indicates a filesystem operation failed or an artifact is corrupt.
	ErrStorageError = errors.New("loudml: storage error")
)

// ValidationError describes a single invalid settings field.
type ValidationError struct {
	// Field is the JSON name of the offending field, e.g. "features[0].metric".
	Field string

	// Reason is a short human readable description of the problem.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) report true.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
