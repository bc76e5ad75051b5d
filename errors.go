package ktreego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrder is returned when the tree order is outside [2, 1000000].
	ErrInvalidOrder = errors.New("tree order must be between 2 and 1000000")
	// ErrObjectInserted is returned when an object is inserted twice.
	ErrObjectInserted = errors.New("object already inserted")
	// ErrNilObject is returned when a nil object is inserted.
	ErrNilObject = errors.New("object is nil")
)

// ErrDimensionMismatch indicates an object/tree dimensionality mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}
