package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// IntColumn builds a column of n random int scalars in [0, bound).
func (r *RNG) IntColumn(n, bound int) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	col := make([]value.Value, n)
	for i := range col {
		col[i] = value.Int(int64(r.rand.Intn(bound)))
	}
	return col
}

// FloatColumn builds a column of n random float scalars in [0.0, 1.0).
func (r *RNG) FloatColumn(n int) []value.Value {
	r.mu.Lock()
	defer r.mu.Unlock()
	col := make([]value.Value, n)
	for i := range col {
		col[i] = value.Float(r.rand.Float64())
	}
	return col
}

// Ints builds a column of int scalars from the given values, in order.
func Ints(vals ...int64) []value.Value {
	col := make([]value.Value, len(vals))
	for i, v := range vals {
		col[i] = value.Int(v)
	}
	return col
}

// Floats builds a column of float scalars from the given values, in order.
func Floats(vals ...float64) []value.Value {
	col := make([]value.Value, len(vals))
	for i, v := range vals {
		col[i] = value.Float(v)
	}
	return col
}

// Bools builds a column of bool scalars from the given values, in order.
func Bools(vals ...bool) []value.Value {
	col := make([]value.Value, len(vals))
	for i, v := range vals {
		col[i] = value.Bool(v)
	}
	return col
}

// Strings builds a column of string scalars from the given values, in order.
func Strings(vals ...string) []value.Value {
	col := make([]value.Value, len(vals))
	for i, v := range vals {
		col[i] = value.String(v)
	}
	return col
}

// SequentialInts builds a column of n int scalars 0..n-1.
func SequentialInts(n int) []value.Value {
	col := make([]value.Value, n)
	for i := range col {
		col[i] = value.Int(int64(i))
	}
	return col
}

// KindValidator accepts any value of the given kind.
func KindValidator(k value.Kind) schema.Validator {
	return schema.ValidatorFunc(func(v value.Value) bool {
		return v.Kind == k
	})
}

// AnyValidator accepts every value.
func AnyValidator() schema.Validator {
	return schema.ValidatorFunc(func(value.Value) bool { return true })
}

// SumRule returns a rule that sums its int vector dependencies
// element-wise. It errors on empty input and non int vector dependencies.
func SumRule() schema.Rule {
	return schema.RuleFunc(func(deps []value.Value) (value.Value, error) {
		if len(deps) == 0 {
			return value.Value{}, fmt.Errorf("no dependencies")
		}
		var out []int64
		for _, v := range deps {
			if v.Kind != value.KindIntVector {
				return value.Value{}, fmt.Errorf("dependency is not an int vector, got %s", v.Kind)
			}
			if out == nil {
				out = make([]int64, len(v.Ints))
			}
			for i, n := range v.Ints {
				out[i] += n
			}
		}
		return value.IntVector(out), nil
	})
}
