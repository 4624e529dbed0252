package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrNilValidator is returned when a field is registered without a
	// validator.
	ErrNilValidator = errors.New("validator must not be nil")
)

// ErrInvalidName indicates an empty or system-prefixed field name.
type ErrInvalidName struct {
	Name string
}

func (e *ErrInvalidName) Error() string {
	return fmt.Sprintf("invalid field name %q", e.Name)
}

// ErrFieldExists indicates a duplicate registration.
type ErrFieldExists struct {
	Name string
}

func (e *ErrFieldExists) Error() string {
	return fmt.Sprintf("field %q already registered", e.Name)
}

// ErrNoDependencies indicates a derived field registered without
// dependencies.
type ErrNoDependencies struct {
	Name string
}

func (e *ErrNoDependencies) Error() string {
	return fmt.Sprintf("derived field %q has no dependencies", e.Name)
}

// ErrMissingRule indicates a derived field registered without a compute
// rule.
type ErrMissingRule struct {
	Name string
}

func (e *ErrMissingRule) Error() string {
	return fmt.Sprintf("derived field %q has no rule", e.Name)
}

// ErrUnknownDependency indicates a dependency on a field that is not
// registered yet.
type ErrUnknownDependency struct {
	Field      string
	Dependency string
}

func (e *ErrUnknownDependency) Error() string {
	return fmt.Sprintf("field %q depends on unregistered field %q", e.Field, e.Dependency)
}

// ErrCyclicDependency indicates a field that (directly) depends on itself.
type ErrCyclicDependency struct {
	Field      string
	Dependency string
}

func (e *ErrCyclicDependency) Error() string {
	return fmt.Sprintf("field %q introduces a dependency cycle via %q", e.Field, e.Dependency)
}
