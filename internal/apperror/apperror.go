package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnauthenticated means no principal could be resolved for the request.
var ErrUnauthenticated = errors.New("user not authenticated")

// ErrNotFound means the requested row does not exist or is not visible
// to the caller.
var ErrNotFound = errors.New("not found")

// ValidationError carries field-keyed messages so forms can render the
// specific failure next to each input instead of a generic banner.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// StorageError wraps a persistence failure. It is surfaced to the caller
// verbatim and never retried automatically.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError for operation op.
func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
