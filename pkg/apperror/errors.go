package apperror

import (
	"errors"
	"fmt"
)

// Error kinds shared by the repository, service and handler layers.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrSystem          = errors.New("system error")
)

// DuplicateKeyError names the unique field that rejected a write.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}
	return fmt.Sprintf("%s: %s already exists", ErrDuplicateKey, e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func Duplicate(field string) error {
	return &DuplicateKeyError{Field: field}
}

func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// System wraps a storage or transport failure, keeping the cause for logs.
func System(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSystem, op, err)
}

// DuplicateField returns the conflicting field of a DuplicateKeyError in the chain.
func DuplicateField(err error) string {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return dup.Field
	}
	return ""
}
