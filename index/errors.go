package index

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnlyView is returned when mutating an index produced by set algebra.
	ErrReadOnlyView = errors.New("index: view is read-only")

	// ErrUnsupportedValue is returned when a value cannot be placed in a bucket,
	// for example a string added to a date index.
	ErrUnsupportedValue = errors.New("index: unsupported value")

	// ErrDuplicateIndex is returned when a Set already indexes a column.
	ErrDuplicateIndex = errors.New("index: column already indexed")

	// ErrInvalidOptions is returned for a bad bucket count, range or kind.
	ErrInvalidOptions = errors.New("index: invalid options")

	// ErrRegistryFull is returned when no more record ids can be issued.
	ErrRegistryFull = errors.New("index: record registry exhausted")
)

// UnsupportedValueError reports the value an index could not place.
type UnsupportedValueError struct {
	Column string
	Kind   Kind
	Value  string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("index: %s index on %q cannot hold %s", e.Kind, e.Column, e.Value)
}

// Is reports whether target is ErrUnsupportedValue.
func (e *UnsupportedValueError) Is(target error) bool {
	return target == ErrUnsupportedValue
}
