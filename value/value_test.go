package value

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankAndLen(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		rank int
		len  int
	}{
		{name: "int scalar", v: Int(42), rank: 0, len: 1},
		{name: "float scalar", v: Float(3.14), rank: 0, len: 1},
		{name: "bool scalar", v: Bool(true), rank: 0, len: 1},
		{name: "string scalar", v: String("x"), rank: 0, len: 1},
		{name: "int vector", v: IntVector([]int64{1, 2, 3}), rank: 1, len: 3},
		{name: "empty float vector", v: FloatVector(nil), rank: 1, len: 0},
		{name: "matrix", v: Matrix([]Value{IntVector([]int64{1}), IntVector([]int64{2, 3})}), rank: 2, len: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.v.Rank())
			assert.Equal(t, tt.len, tt.v.Len())
		})
	}
}

func TestShape(t *testing.T) {
	assert.Empty(t, Int(1).Shape())
	assert.Equal(t, []int{3}, IntVector([]int64{1, 2, 3}).Shape())
	assert.Equal(t, []int{2, 3}, Matrix([]Value{
		IntVector([]int64{1, 2, 3}),
		IntVector([]int64{4, 5, 6}),
	}).Shape())
	assert.Equal(t, []int{0}, Matrix(nil).Shape())
}

func TestElement(t *testing.T) {
	v := StringVector([]string{"a", "b", "c"})

	el, err := v.Element(1)
	require.NoError(t, err)
	assert.Equal(t, String("b"), el)

	_, err = v.Element(3)
	var oob *ErrIndexOutOfBounds
	require.ErrorAs(t, err, &oob)
	assert.Equal(t, 3, oob.Index)
	assert.Equal(t, 3, oob.Max)

	_, err = v.Element(-1)
	require.ErrorAs(t, err, &oob)

	_, err = Int(1).Element(0)
	assert.ErrorIs(t, err, ErrNotVector)
}

func TestFromScalars(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		v, err := FromScalars([]Value{Int(1), Int(2), Int(3)})
		require.NoError(t, err)
		assert.Equal(t, IntVector([]int64{1, 2, 3}), v)
	})

	t.Run("preserves float bits", func(t *testing.T) {
		nan := math.NaN()
		v, err := FromScalars([]Value{Float(nan), Float(math.Inf(1))})
		require.NoError(t, err)
		assert.True(t, math.IsNaN(v.Floats[0]))
		assert.True(t, math.IsInf(v.Floats[1], 1))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := FromScalars(nil)
		assert.ErrorIs(t, err, ErrEmptySequence)
	})

	t.Run("non-scalar", func(t *testing.T) {
		_, err := FromScalars([]Value{IntVector([]int64{1})})
		assert.ErrorIs(t, err, ErrNotScalar)
	})

	t.Run("mixed kinds", func(t *testing.T) {
		_, err := FromScalars([]Value{Int(1), String("x")})
		var km *ErrKindMismatch
		require.ErrorAs(t, err, &km)
		assert.Equal(t, KindInt, km.Want)
		assert.Equal(t, KindString, km.Got)
	})
}

func TestConcat(t *testing.T) {
	a := IntVector([]int64{1, 2})
	b := IntVector([]int64{3})

	out, err := a.Concat(b)
	require.NoError(t, err)
	assert.Equal(t, IntVector([]int64{1, 2, 3}), out)

	// Inputs untouched.
	assert.Equal(t, []int64{1, 2}, a.Ints)

	_, err = a.Concat(FloatVector([]float64{1}))
	var km *ErrKindMismatch
	assert.True(t, errors.As(err, &km))

	_, err = a.Concat(Int(1))
	assert.ErrorIs(t, err, ErrNotVector)
}

func TestClone(t *testing.T) {
	t.Run("vector", func(t *testing.T) {
		orig := IntVector([]int64{1, 2, 3})
		cp := orig.Clone()
		cp.Ints[0] = 99
		assert.Equal(t, []int64{1, 2, 3}, orig.Ints)
	})

	t.Run("matrix", func(t *testing.T) {
		orig := Matrix([]Value{IntVector([]int64{1, 2})})
		cp := orig.Clone()
		cp.Rows[0].Ints[1] = 99
		assert.Equal(t, []int64{1, 2}, orig.Rows[0].Ints)
	})

	t.Run("scalar", func(t *testing.T) {
		assert.Equal(t, Int(7), Int(7).Clone())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, Int(7).Key(), Int(7).Key())
	assert.NotEqual(t, Int(7).Key(), Int(8).Key())
	assert.NotEqual(t, Int(1).Key(), Float(1).Key())

	// Floats key by bit pattern, so 0.0 and -0.0 differ and identical NaN
	// payloads collide.
	assert.NotEqual(t, Float(0.0).Key(), Float(math.Copysign(0, -1)).Key())
	assert.Equal(t, Float(math.NaN()).Key(), Float(math.NaN()).Key())
}

func TestAsAccessors(t *testing.T) {
	i, ok := Int(5).AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(5), i)

	_, ok = Float(5).AsInt()
	assert.False(t, ok)

	s, ok := String("x").AsString()
	require.True(t, ok)
	assert.Equal(t, "x", s)

	b, ok := Bool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)

	f, ok := Float(2.5).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)
}

func TestZeroValueIsInvalid(t *testing.T) {
	var v Value
	assert.Equal(t, KindInvalid, v.Kind)
	assert.False(t, v.IsScalar())
	assert.False(t, v.IsVector())
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, "invalid", v.Key())
}
