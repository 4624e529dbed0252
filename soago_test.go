package soago

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/soago/codec"
	"github.com/hupe1980/soago/testutil"
	"github.com/hupe1980/soago/value"
)

func newTestStore() *Store {
	return New(WithLogger(NewLogger(slog.NewTextHandler(io.Discard, nil))))
}

func TestStoreRegister(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.RegisterField(ctx, "age", testutil.KindValidator(value.KindInt)))
	assert.True(t, store.Registry().Has("age"))

	err := store.RegisterField(ctx, "age", testutil.AnyValidator())
	assert.ErrorIs(t, err, ErrFieldExists)

	err = store.RegisterDerivedField(ctx, "sum", testutil.AnyValidator(), []string{"ghost"}, testutil.SumRule())
	assert.ErrorIs(t, err, ErrFieldNotFound)

	err = store.RegisterDerivedField(ctx, "sum", testutil.AnyValidator(), nil, testutil.SumRule())
	assert.ErrorIs(t, err, ErrDerivedFieldNoDeps)

	err = store.RegisterDerivedField(ctx, "sum", testutil.AnyValidator(), []string{"sum"}, testutil.SumRule())
	assert.ErrorIs(t, err, ErrCyclicDependency)
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.RegisterField(ctx, "a", testutil.KindValidator(value.KindInt)))
	require.NoError(t, store.RegisterField(ctx, "b", testutil.KindValidator(value.KindInt)))
	require.NoError(t, store.RegisterDerivedField(ctx, "sum", testutil.AnyValidator(), []string{"a", "b"}, testutil.SumRule()))

	b, err := store.Init(3)
	require.NoError(t, err)

	b, err = store.Set(ctx, b, "a", testutil.Ints(10, 20, 30))
	require.NoError(t, err)
	b, err = store.Set(ctx, b, "b", testutil.Ints(5, 15, 25))
	require.NoError(t, err)

	sum, err := store.Get(ctx, b, "sum")
	require.NoError(t, err)
	assert.Equal(t, []int64{15, 35, 55}, sum.Ints)

	// A transform over every row invalidates and recomputes the chain.
	b, err = store.Apply(ctx, b, nil, func(subset []value.Value) ([]value.Value, error) {
		out := make([]value.Value, len(subset))
		for i, v := range subset {
			n, _ := v.AsInt()
			out[i] = value.Int(n + 100)
		}
		return out, nil
	})
	require.NoError(t, err)

	sum, err = store.Get(ctx, b, "sum")
	require.NoError(t, err)
	assert.Equal(t, []int64{215, 235, 255}, sum.Ints)
}

func TestStoreApplyPreciseInvalidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.RegisterField(ctx, "a", testutil.AnyValidator()))
	require.NoError(t, store.RegisterDerivedField(ctx, "sum", testutil.AnyValidator(), []string{"a"}, testutil.SumRule()))

	b, err := store.Init(2)
	require.NoError(t, err)
	b, err = store.Set(ctx, b, "a", testutil.Ints(1, 2))
	require.NoError(t, err)

	_, err = store.Get(ctx, b, "sum")
	require.NoError(t, err)

	nb, err := store.Apply(ctx, b, []bool{true, false}, func(subset []value.Value) ([]value.Value, error) {
		return []value.Value{value.Int(9)}, nil
	})
	require.NoError(t, err)

	sum, err := store.Get(ctx, nb, "sum")
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 2}, sum.Ints)
}

func TestStorePartitionBy(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.RegisterField(ctx, "g", testutil.KindValidator(value.KindInt)))

	b, err := store.Init(6)
	require.NoError(t, err)
	b, err = store.Set(ctx, b, "g", testutil.Ints(1, 2, 1, 3, 2, 1))
	require.NoError(t, err)

	views, err := store.PartitionBy(ctx, b, "g")
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, 3, views[0].Count())
	assert.Equal(t, 2, views[1].Count())
	assert.Equal(t, 1, views[2].Count())
}

func TestStoreMarshalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := New(
		WithCodec(codec.Binary{}),
		WithLogger(nil), // nil falls back to noop
	)

	require.NoError(t, store.RegisterField(ctx, "a", testutil.AnyValidator()))

	b, err := store.Init(2)
	require.NoError(t, err)
	b, err = store.Set(ctx, b, "a", testutil.Ints(1, 2))
	require.NoError(t, err)

	data, err := store.Marshal(b)
	require.NoError(t, err)

	out, err := store.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count())

	col, err := store.Get(ctx, out, "a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, col.Ints)
}

func TestStoreRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()

	require.NoError(t, store.RegisterField(ctx, "a", testutil.KindValidator(value.KindInt)))

	b, err := store.Init(2)
	require.NoError(t, err)
	b, err = store.Set(ctx, b, "a", testutil.Ints(7, 8))
	require.NoError(t, err)

	data, err := store.MarshalRecords(b)
	require.NoError(t, err)

	out, err := store.UnmarshalRecords(data)
	require.NoError(t, err)

	col, err := store.Get(ctx, out, "a")
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, col.Ints)
}

func TestWithCodecNilFallsBack(t *testing.T) {
	store := New(WithCodec(nil))
	assert.Equal(t, codec.Default.Name(), store.codec.Name())
}
