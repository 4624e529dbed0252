package soago

import (
	"errors"
	"fmt"

	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

var (
	// ErrInvalidArgument is returned for general contract violations: zero
	// row count, empty value sequences, arithmetic overflow, a non-vector
	// value where a vector was required.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrFieldNotFound is returned for unregistered field references and
	// for registered fields that were never set.
	ErrFieldNotFound = errors.New("field not found")

	// ErrValidationFailed is returned when a value is rejected by the
	// field's validator.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFieldExists is returned when registering a field name twice.
	ErrFieldExists = errors.New("field already exists")

	// ErrDerivedFieldNoDeps is returned for an inconsistent derived-field
	// registration (missing dependencies or rule).
	ErrDerivedFieldNoDeps = errors.New("derived field missing dependencies")

	// ErrCyclicDependency is returned when a registration would introduce a
	// dependency cycle.
	ErrCyclicDependency = errors.New("cyclic field dependency")
)

// ErrIndexOutOfBounds indicates a row or element access past the end.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrIndexOutOfBounds struct {
	Index int
	Max   int
	cause error
}

func (e *ErrIndexOutOfBounds) Error() string {
	return fmt.Sprintf("index out of bounds: %d (max %d)", e.Index, e.Max)
}

func (e *ErrIndexOutOfBounds) Unwrap() error { return e.cause }

// ErrLengthMismatch indicates a sequence whose length does not match the
// expected row or mask count.
type ErrLengthMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrLengthMismatch) Error() string {
	return fmt.Sprintf("length mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// translateError normalizes subpackage errors into the public contract.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Bounds normalization.
	var ioob *value.ErrIndexOutOfBounds
	if errors.As(err, &ioob) {
		return &ErrIndexOutOfBounds{Index: ioob.Index, Max: ioob.Max, cause: err}
	}

	// Value-shape violations are argument errors.
	var km *value.ErrKindMismatch
	if errors.Is(err, value.ErrNotVector) || errors.Is(err, value.ErrNotScalar) ||
		errors.Is(err, value.ErrEmptySequence) || errors.As(err, &km) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	// Registration errors.
	var fe *schema.ErrFieldExists
	if errors.As(err, &fe) {
		return fmt.Errorf("%w: %w", ErrFieldExists, err)
	}
	var nd *schema.ErrNoDependencies
	var mr *schema.ErrMissingRule
	if errors.As(err, &nd) || errors.As(err, &mr) {
		return fmt.Errorf("%w: %w", ErrDerivedFieldNoDeps, err)
	}
	var cd *schema.ErrCyclicDependency
	if errors.As(err, &cd) {
		return fmt.Errorf("%w: %w", ErrCyclicDependency, err)
	}
	var ud *schema.ErrUnknownDependency
	if errors.As(err, &ud) {
		return fmt.Errorf("%w: %w", ErrFieldNotFound, err)
	}
	var in *schema.ErrInvalidName
	if errors.As(err, &in) || errors.Is(err, schema.ErrNilValidator) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return err
}

func fieldNotFoundError(field string) error {
	return fmt.Errorf("%w: %q", ErrFieldNotFound, field)
}
