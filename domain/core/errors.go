package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrVariableNotFound  = fmt.Errorf("%w: design variable", ErrNotFound)
	ErrKeyColumnNotFound = fmt.Errorf("%w: key column", ErrNotFound)
	ErrColumnNotFound    = fmt.Errorf("%w: column", ErrNotFound)
	ErrAttributeNotFound = fmt.Errorf("%w: report attribute", ErrNotFound)

	// Generation errors
	ErrConstructionFailed = errors.New("record construction failed")
	ErrNoFactory          = errors.New("no record factory supplied")

	// Alignment errors
	ErrDuplicateKey = errors.New("duplicate key value")
	ErrEmptyTable   = errors.New("table has no rows")
)

// Error constructors with context
func NewVariableNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrVariableNotFound, name)
}

func NewAttributeNotFoundError(name string) error {
	return fmt.Errorf("%w: %q", ErrAttributeNotFound, name)
}

func NewDuplicateKeyError(column string, key interface{}) error {
	return fmt.Errorf("%w: %v in column %q", ErrDuplicateKey, key, column)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
