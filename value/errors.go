package value

import (
	"errors"
	"fmt"
)

var (
	// ErrNotVector is returned when a vector-only operation is applied to a
	// non-vector value.
	ErrNotVector = errors.New("value is not a vector")

	// ErrNotScalar is returned when a scalar-only operation is applied to a
	// non-scalar value.
	ErrNotScalar = errors.New("value is not a scalar")

	// ErrEmptySequence is returned when packing an empty value sequence.
	ErrEmptySequence = errors.New("empty value sequence")
)

// ErrIndexOutOfBounds indicates an element access past the end of a vector.
type ErrIndexOutOfBounds struct {
	Index int
	Max   int
}

func (e *ErrIndexOutOfBounds) Error() string {
	return fmt.Sprintf("index out of bounds: %d (max %d)", e.Index, e.Max)
}

// ErrKindMismatch indicates two values of incompatible kinds.
type ErrKindMismatch struct {
	Want Kind
	Got  Kind
}

func (e *ErrKindMismatch) Error() string {
	return fmt.Sprintf("kind mismatch: want %s, got %s", e.Want, e.Got)
}
