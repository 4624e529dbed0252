// Package value defines the tagged, rank-aware values stored in soago columns.
//
// A Value is either a scalar (rank 0), a vector (rank 1) or a matrix
// (rank 2). Vectors are the unit of column storage; scalars are what row
// accessors hand out; matrices are ordered sequences of row Values and may
// be ragged (the type does not validate row lengths).
//
// The representation is a small tagged struct rather than an interface so
// that columns stay flat and codec-friendly: no reflection, no boxing per
// element.
//
// NOTE: The exported fields are part of the persistence wire format; keep
// them stable.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindInt represents a scalar int64.
	KindInt
	// KindFloat represents a scalar float64.
	KindFloat
	// KindBool represents a scalar bool.
	KindBool
	// KindString represents a scalar string.
	KindString
	// KindIntVector represents a vector of int64.
	KindIntVector
	// KindFloatVector represents a vector of float64.
	KindFloatVector
	// KindBoolVector represents a vector of bool.
	KindBoolVector
	// KindStringVector represents a vector of string.
	KindStringVector
	// KindMatrix represents an ordered sequence of row Values.
	KindMatrix
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindIntVector:
		return "IntVector"
	case KindFloatVector:
		return "FloatVector"
	case KindBoolVector:
		return "BoolVector"
	case KindStringVector:
		return "StringVector"
	case KindMatrix:
		return "Matrix"
	default:
		return "Invalid"
	}
}

// Value is a tagged scalar, vector or matrix.
//
// Exactly one payload field is meaningful for a given Kind. The zero Value
// has KindInvalid and is rejected by every operation that inspects kinds.
type Value struct {
	Kind    Kind      `json:"k" toml:"k"`
	I64     int64     `json:"i,omitempty" toml:"i,omitempty"`
	F64     float64   `json:"f,omitempty" toml:"f,omitempty"`
	B       bool      `json:"b,omitempty" toml:"b,omitempty"`
	S       string    `json:"s,omitempty" toml:"s,omitempty"`
	Ints    []int64   `json:"iv,omitempty" toml:"iv,omitempty"`
	Floats  []float64 `json:"fv,omitempty" toml:"fv,omitempty"`
	Bools   []bool    `json:"bv,omitempty" toml:"bv,omitempty"`
	Strings []string  `json:"sv,omitempty" toml:"sv,omitempty"`
	Rows    []Value   `json:"m,omitempty" toml:"m,omitempty"`
}

// Int returns a scalar int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a scalar float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// Bool returns a scalar bool Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// String returns a scalar string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// IntVector returns a vector Value over the given int64 slice.
func IntVector(v []int64) Value { return Value{Kind: KindIntVector, Ints: v} }

// FloatVector returns a vector Value over the given float64 slice.
func FloatVector(v []float64) Value { return Value{Kind: KindFloatVector, Floats: v} }

// BoolVector returns a vector Value over the given bool slice.
func BoolVector(v []bool) Value { return Value{Kind: KindBoolVector, Bools: v} }

// StringVector returns a vector Value over the given string slice.
func StringVector(v []string) Value { return Value{Kind: KindStringVector, Strings: v} }

// Matrix returns a matrix Value over the given rows.
func Matrix(rows []Value) Value { return Value{Kind: KindMatrix, Rows: rows} }

// IsScalar reports whether the value has rank 0.
func (v Value) IsScalar() bool {
	switch v.Kind {
	case KindInt, KindFloat, KindBool, KindString:
		return true
	default:
		return false
	}
}

// IsVector reports whether the value has rank 1.
func (v Value) IsVector() bool {
	switch v.Kind {
	case KindIntVector, KindFloatVector, KindBoolVector, KindStringVector:
		return true
	default:
		return false
	}
}

// IsMatrix reports whether the value has rank 2.
func (v Value) IsMatrix() bool { return v.Kind == KindMatrix }

// Rank returns 0 for scalars, 1 for vectors and 2 for matrices.
func (v Value) Rank() int {
	switch {
	case v.IsScalar():
		return 0
	case v.IsVector():
		return 1
	case v.IsMatrix():
		return 2
	default:
		return 0
	}
}

// Len returns 1 for scalars, the element count for vectors and the row
// count for matrices.
func (v Value) Len() int {
	switch v.Kind {
	case KindInt, KindFloat, KindBool, KindString:
		return 1
	case KindIntVector:
		return len(v.Ints)
	case KindFloatVector:
		return len(v.Floats)
	case KindBoolVector:
		return len(v.Bools)
	case KindStringVector:
		return len(v.Strings)
	case KindMatrix:
		return len(v.Rows)
	default:
		return 0
	}
}

// IsEmpty reports whether Len is zero. Scalars are never empty.
func (v Value) IsEmpty() bool { return v.Len() == 0 }

// Shape returns the dimensions of the value: nil for scalars, [n] for
// vectors, [rows, firstRowLen] for matrices. An empty matrix has shape [0].
func (v Value) Shape() []int {
	switch {
	case v.IsScalar():
		return []int{}
	case v.IsVector():
		return []int{v.Len()}
	case v.IsMatrix():
		if len(v.Rows) == 0 {
			return []int{0}
		}
		return []int{len(v.Rows), v.Rows[0].Len()}
	default:
		return []int{}
	}
}

// Element extracts the scalar at idx from a vector value, preserving its
// primitive kind.
func (v Value) Element(idx int) (Value, error) {
	if !v.IsVector() {
		return Value{}, ErrNotVector
	}
	if idx < 0 || idx >= v.Len() {
		return Value{}, &ErrIndexOutOfBounds{Index: idx, Max: v.Len()}
	}
	switch v.Kind {
	case KindIntVector:
		return Int(v.Ints[idx]), nil
	case KindFloatVector:
		return Float(v.Floats[idx]), nil
	case KindBoolVector:
		return Bool(v.Bools[idx]), nil
	default:
		return String(v.Strings[idx]), nil
	}
}

// vectorKind returns the vector counterpart of a scalar kind.
func vectorKind(k Kind) Kind {
	switch k {
	case KindInt:
		return KindIntVector
	case KindFloat:
		return KindFloatVector
	case KindBool:
		return KindBoolVector
	case KindString:
		return KindStringVector
	default:
		return KindInvalid
	}
}

// FromScalars packs a homogeneous sequence of scalar Values into a single
// vector Value. It fails on an empty sequence, on non-scalar elements and
// on mixed primitive kinds.
func FromScalars(vals []Value) (Value, error) {
	if len(vals) == 0 {
		return Value{}, ErrEmptySequence
	}
	first := vals[0]
	if !first.IsScalar() {
		return Value{}, ErrNotScalar
	}
	for _, v := range vals[1:] {
		if v.Kind != first.Kind {
			return Value{}, &ErrKindMismatch{Want: first.Kind, Got: v.Kind}
		}
	}
	switch first.Kind {
	case KindInt:
		out := make([]int64, len(vals))
		for i, v := range vals {
			out[i] = v.I64
		}
		return IntVector(out), nil
	case KindFloat:
		out := make([]float64, len(vals))
		for i, v := range vals {
			out[i] = v.F64
		}
		return FloatVector(out), nil
	case KindBool:
		out := make([]bool, len(vals))
		for i, v := range vals {
			out[i] = v.B
		}
		return BoolVector(out), nil
	default:
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = v.S
		}
		return StringVector(out), nil
	}
}

// Concat returns a new vector holding the elements of v followed by the
// elements of o. Both values must be vectors of the same kind.
func (v Value) Concat(o Value) (Value, error) {
	if !v.IsVector() || !o.IsVector() {
		return Value{}, ErrNotVector
	}
	if v.Kind != o.Kind {
		return Value{}, &ErrKindMismatch{Want: v.Kind, Got: o.Kind}
	}
	switch v.Kind {
	case KindIntVector:
		out := make([]int64, 0, len(v.Ints)+len(o.Ints))
		out = append(out, v.Ints...)
		out = append(out, o.Ints...)
		return IntVector(out), nil
	case KindFloatVector:
		out := make([]float64, 0, len(v.Floats)+len(o.Floats))
		out = append(out, v.Floats...)
		out = append(out, o.Floats...)
		return FloatVector(out), nil
	case KindBoolVector:
		out := make([]bool, 0, len(v.Bools)+len(o.Bools))
		out = append(out, v.Bools...)
		out = append(out, o.Bools...)
		return BoolVector(out), nil
	default:
		out := make([]string, 0, len(v.Strings)+len(o.Strings))
		out = append(out, v.Strings...)
		out = append(out, o.Strings...)
		return StringVector(out), nil
	}
}

// Key returns a stable string representation for use in maps.
//
// Floats are keyed by their IEEE-754 bit pattern, so distinct NaN payloads
// produce distinct keys. Intended for internal dedup (partitioning) and
// must remain stable.
func (v Value) Key() string {
	switch v.Kind {
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindString:
		return "s:" + v.S
	case KindIntVector, KindFloatVector, KindBoolVector, KindStringVector:
		n := v.Len()
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			el, _ := v.Element(i)
			parts[i] = el.Key()
		}
		return "v:" + strings.Join(parts, "\x1f")
	case KindMatrix:
		parts := make([]string, len(v.Rows))
		for i := range v.Rows {
			parts[i] = v.Rows[i].Key()
		}
		return "m:" + strings.Join(parts, "\x1e")
	default:
		return "invalid"
	}
}

// Clone returns a deep copy of the value. The payload slices of vectors
// and the rows of matrices are copied, so mutating the clone never
// affects the original.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindIntVector:
		out := make([]int64, len(v.Ints))
		copy(out, v.Ints)
		return IntVector(out)
	case KindFloatVector:
		out := make([]float64, len(v.Floats))
		copy(out, v.Floats)
		return FloatVector(out)
	case KindBoolVector:
		out := make([]bool, len(v.Bools))
		copy(out, v.Bools)
		return BoolVector(out)
	case KindStringVector:
		out := make([]string, len(v.Strings))
		copy(out, v.Strings)
		return StringVector(out)
	case KindMatrix:
		rows := make([]Value, len(v.Rows))
		for i := range v.Rows {
			rows[i] = v.Rows[i].Clone()
		}
		return Matrix(rows)
	default:
		return v
	}
}

// AsInt returns the int64 payload if Kind is KindInt.
func (v Value) AsInt() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat returns the float64 payload if Kind is KindFloat.
func (v Value) AsFloat() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsBool returns the bool payload if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsString returns the string payload if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}
