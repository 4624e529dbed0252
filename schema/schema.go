// Package schema holds the field registry: per-field validators, the
// derived/stored split and the ordered dependency lists that drive derived
// computation and cache invalidation.
//
// A Registry is append-only. Fields are registered once and never removed
// or redefined; dependencies of a derived field must already be registered,
// which keeps the dependency graph acyclic by construction.
package schema

import (
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/soago/value"
)

// Names starting with the system prefix are reserved for engine-internal
// columns and cannot be registered.
const systemPrefix = "_"

// Validator checks a single value against a field's contract.
// Implementations must be safe for concurrent use.
type Validator interface {
	Validate(v value.Value) bool
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(v value.Value) bool

// Validate calls f(v).
func (f ValidatorFunc) Validate(v value.Value) bool { return f(v) }

// Rule computes a derived field from its dependency columns. The deps slice
// follows the declared dependency order of the field.
// Implementations must be pure and safe for concurrent use.
type Rule interface {
	Compute(deps []value.Value) (value.Value, error)
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(deps []value.Value) (value.Value, error)

// Compute calls f(deps).
func (f RuleFunc) Compute(deps []value.Value) (value.Value, error) { return f(deps) }

// Field is the metadata stored per registered field.
type Field struct {
	Validator    Validator
	Derived      bool
	Dependencies []string
	Rule         Rule
}

// Registry maps field names to their metadata.
//
// The zero Registry is not usable; construct with NewRegistry.
type Registry struct {
	mu     sync.RWMutex
	fields map[string]*Field
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{fields: make(map[string]*Field)}
}

// IsValidFieldName reports whether name is non-empty and not reserved for
// system fields.
func IsValidFieldName(name string) bool {
	return name != "" && !strings.HasPrefix(name, systemPrefix)
}

// FilterSystemFields returns names with system-prefixed entries removed,
// preserving order.
func FilterSystemFields(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !strings.HasPrefix(n, systemPrefix) {
			out = append(out, n)
		}
	}
	return out
}

// Register adds a stored (non-derived) field.
func (r *Registry) Register(name string, v Validator) error {
	return r.register(name, v, false, nil, nil)
}

// RegisterDerived adds a derived field computed by rule from deps, in
// declared order. Every dependency must already be registered and must not
// name the field itself.
func (r *Registry) RegisterDerived(name string, v Validator, deps []string, rule Rule) error {
	return r.register(name, v, true, deps, rule)
}

func (r *Registry) register(name string, v Validator, derived bool, deps []string, rule Rule) error {
	if !IsValidFieldName(name) {
		return &ErrInvalidName{Name: name}
	}
	if v == nil {
		return ErrNilValidator
	}
	if derived {
		if len(deps) == 0 {
			return &ErrNoDependencies{Name: name}
		}
		if rule == nil {
			return &ErrMissingRule{Name: name}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.fields[name]; ok {
		return &ErrFieldExists{Name: name}
	}
	for _, dep := range deps {
		if dep == name {
			return &ErrCyclicDependency{Field: name, Dependency: dep}
		}
		if _, ok := r.fields[dep]; !ok {
			return &ErrUnknownDependency{Field: name, Dependency: dep}
		}
	}

	cp := make([]string, len(deps))
	copy(cp, deps)

	r.fields[name] = &Field{
		Validator:    v,
		Derived:      derived,
		Dependencies: cp,
		Rule:         rule,
	}
	return nil
}

// Validate reports whether val passes the field's validator. It returns
// false for unknown fields and never errors.
func (r *Registry) Validate(field string, val value.Value) bool {
	r.mu.RLock()
	f, ok := r.fields[field]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return f.Validator.Validate(val)
}

// Field returns the metadata for name.
func (r *Registry) Field(name string) (*Field, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[name]
	return f, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.fields[name]
	return ok
}

// Fields returns all registered field names in sorted order.
func (r *Registry) Fields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.fields))
	for name := range r.fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fields)
}

// IsEmpty reports whether no fields are registered.
func (r *Registry) IsEmpty() bool { return r.Len() == 0 }
