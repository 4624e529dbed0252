package soago

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/soago/codec"
	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/testutil"
)

func buildSampleBulk(t *testing.T) (*Bulk, *schema.Registry) {
	t.Helper()
	reg := newTestRegistry(t, "age", "name")

	b, err := NewBulk(3)
	require.NoError(t, err)
	b, err = b.Set(reg, "age", testutil.Ints(25, 30, 35))
	require.NoError(t, err)
	b, err = b.Set(reg, "name", testutil.Strings("ann", "bob", "cyd"))
	require.NoError(t, err)
	return b, reg
}

func TestMarshalBulkRoundTrip(t *testing.T) {
	codecs := []codec.Codec{codec.JSON{}, codec.GoJSON{}, codec.TOML{}, codec.Binary{}, codec.BinaryZstd{}, codec.BinaryLZ4{}}

	for _, c := range codecs {
		t.Run(c.Name(), func(t *testing.T) {
			b, reg := buildSampleBulk(t)

			data, err := MarshalBulk(c, b)
			require.NoError(t, err)
			require.NotEmpty(t, data)

			out, err := UnmarshalBulk(c, data)
			require.NoError(t, err)

			assert.Equal(t, b.Count(), out.Count())
			assert.Equal(t, b.IDs(), out.IDs())
			assert.Equal(t, b.DataFields(), out.DataFields())

			v, ok := out.Version("age")
			require.True(t, ok)
			assert.Equal(t, uint64(1), v)

			for _, field := range b.DataFields() {
				want, err := b.Get(reg, field)
				require.NoError(t, err)
				got, err := out.Get(reg, field)
				require.NoError(t, err)
				assert.Equal(t, want, got, field)
			}

			// The derived cache is never persisted.
			assert.Equal(t, CacheStats{}, out.CacheStats())
		})
	}
}

// The JSON family cannot represent NaN; binary codecs carry the full bit
// pattern through a round trip.
func TestMarshalBulkFloatSpecials(t *testing.T) {
	reg := newTestRegistry(t, "f")
	b, err := NewBulk(3)
	require.NoError(t, err)
	b, err = b.Set(reg, "f", testutil.Floats(math.NaN(), math.Inf(1), -0.5))
	require.NoError(t, err)

	for _, c := range []codec.Codec{codec.Binary{}, codec.BinaryZstd{}, codec.BinaryLZ4{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := MarshalBulk(c, b)
			require.NoError(t, err)

			out, err := UnmarshalBulk(c, data)
			require.NoError(t, err)

			col, err := out.Get(reg, "f")
			require.NoError(t, err)
			require.Len(t, col.Floats, 3)
			assert.True(t, math.IsNaN(col.Floats[0]))
			assert.True(t, math.IsInf(col.Floats[1], 1))
			assert.Equal(t, -0.5, col.Floats[2])
		})
	}
}

func TestUnmarshalBulkErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "not decodable",
			payload: "not json",
		},
		{
			name:    "zero count",
			payload: `{"meta":{"count":0,"id":[]}}`,
		},
		{
			name:    "id length mismatch",
			payload: `{"meta":{"count":3,"id":[0]}}`,
		},
		{
			name:    "wrong chunk count",
			payload: `{"meta":{"count":3,"id":[0,1,2]},"chunks":[{"len":3},{"len":0}]}`,
		},
		{
			name:    "chunk length mismatch",
			payload: `{"meta":{"count":3,"id":[0,1,2]},"chunks":[{"len":5}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalBulk(codec.GoJSON{}, []byte(tt.payload))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

// Malformed chunk lengths must surface as a decode error, not as a panic
// in row accessors downstream.
func TestUnmarshalBulkRejectsInconsistentChunks(t *testing.T) {
	payload := `{"meta":{"count":2,"id":[0,1]},"chunks":[{"len":4,"columns":{"n":{"k":5,"iv":[1,2,3,4]}}}]}`

	_, err := UnmarshalBulk(codec.GoJSON{}, []byte(payload))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMarshalBulkNilCodecUsesDefault(t *testing.T) {
	b, _ := buildSampleBulk(t)

	data, err := MarshalBulk(nil, b)
	require.NoError(t, err)

	out, err := UnmarshalBulk(nil, data)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count())
}
