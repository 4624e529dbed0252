// Package soago provides an in-memory columnar data engine for Go.
//
// Soago stores rows in structure-of-arrays form: every field is a typed
// column, and columns are split into fixed-size chunks that are allocated
// lazily on first write. A Bulk is an immutable snapshot; writes return a
// new Bulk sharing unchanged chunk columns with its parent.
//
// # Quick Start
//
//	ctx := context.Background()
//	store := soago.New()
//
//	_ = store.RegisterField(ctx, "age", schema.ValidatorFunc(func(v value.Value) bool {
//	    return v.Kind == value.KindInt
//	}))
//
//	b, _ := store.Init(3)
//	b, _ = store.Set(ctx, b, "age", []value.Value{
//	    value.Int(25), value.Int(30), value.Int(35),
//	})
//	col, _ := store.Get(ctx, b, "age")
//
// # Derived Fields
//
// A derived field is computed on demand from other fields and memoized per
// snapshot. The cache is keyed on per-field version counters, so a Set on
// a dependency transparently invalidates every transitive dependent:
//
//	_ = store.RegisterDerivedField(ctx, "double_age",
//	    schema.ValidatorFunc(isIntVector),
//	    []string{"age"},
//	    schema.RuleFunc(func(deps []value.Value) (value.Value, error) {
//	        ages := deps[0].Ints
//	        out := make([]int64, len(ages))
//	        for i, a := range ages {
//	            out[i] = a * 2
//	        }
//	        return value.IntVector(out), nil
//	    }))
//
// Dependencies must be registered before their dependents, which keeps the
// dependency graph acyclic by construction.
//
// # Transforms and Partitioning
//
//	// Rewrite masked rows of every data field.
//	b, _ = store.Apply(ctx, b, mask, fn)
//
//	// One View per distinct value of a column.
//	views, _ := store.PartitionBy(ctx, b, "city")
//
// # Serialization
//
// Snapshots round-trip through pluggable codecs (JSON, TOML, gob, and
// zstd/lz4-compressed gob), either chunk-for-chunk via Marshal/Unmarshal
// or in array-of-records form via MarshalRecords/UnmarshalRecords. The
// derived-field cache is never serialized.
package soago
