package soago

import (
	"fmt"
	"math"
	"sort"

	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

// ChunkSize is the fixed tile capacity of the columnar layout.
//
// 1024 elements * 8 bytes (int64/float64) = 8KB per column tile, which
// keeps one tile within a small cache working set while amortizing
// per-tile overhead.
const ChunkSize = 1024

// chunk is one fixed-capacity tile: up to ChunkSize rows of every field,
// each field stored as a single vector Value of length len.
type chunk struct {
	len     int
	columns map[string]value.Value
}

// meta carries the row bookkeeping of a Bulk: the fixed row count, the row
// identifiers (initialized 0..count and never mutated) and the per-field
// version counters that drive derived-cache staleness detection.
type meta struct {
	count    int
	id       []int
	versions map[string]uint64
}

func newBulkMeta(count int) (meta, error) {
	if count <= 0 {
		return meta{}, fmt.Errorf("%w: bulk count must be greater than 0", ErrInvalidArgument)
	}
	id := make([]int, count)
	for i := range id {
		id[i] = i
	}
	return meta{
		count:    count,
		id:       id,
		versions: make(map[string]uint64),
	}, nil
}

// Bulk is the Structure-of-Arrays store: an ordered sequence of chunks
// covering [0,count) contiguously, plus row metadata and a memoization
// cache for derived fields.
//
// Bulk is logically immutable. Set and Apply never mutate the receiver;
// they clone it, mutate the clone and return it, so a Bulk value is safe
// to share across readers. The derived cache is the only interior
// mutability and carries its own synchronization.
type Bulk struct {
	meta   meta
	chunks []chunk
	cache  *derivedCache
}

// NewBulk creates an empty Bulk for count rows. Chunks are allocated
// lazily by the first successful Set.
func NewBulk(count int) (*Bulk, error) {
	m, err := newBulkMeta(count)
	if err != nil {
		return nil, err
	}
	return &Bulk{meta: m, cache: newDerivedCache()}, nil
}

// Count returns the number of rows.
func (b *Bulk) Count() int { return b.meta.count }

// IDs returns a copy of the row identifiers.
func (b *Bulk) IDs() []int {
	out := make([]int, len(b.meta.id))
	copy(out, b.meta.id)
	return out
}

// Version returns the write counter for field. The second result is false
// until the field's first successful write.
func (b *Bulk) Version(field string) (uint64, bool) {
	v, ok := b.meta.versions[field]
	return v, ok
}

// CacheStats reports derived-cache hit/miss/compute counters for this
// snapshot.
func (b *Bulk) CacheStats() CacheStats { return b.cache.stats() }

// DataFields lists the populated field names in sorted order, excluding
// system fields.
func (b *Bulk) DataFields() []string {
	if len(b.chunks) == 0 {
		return nil
	}
	names := make([]string, 0, len(b.chunks[0].columns))
	for name := range b.chunks[0].columns {
		names = append(names, name)
	}
	names = schema.FilterSystemFields(names)
	sort.Strings(names)
	return names
}

// clone produces the mutable successor of b. Chunk column maps and the
// version map are copied; the column Values themselves are shared until a
// write replaces them.
func (b *Bulk) clone() *Bulk {
	versions := make(map[string]uint64, len(b.meta.versions))
	for k, v := range b.meta.versions {
		versions[k] = v
	}
	chunks := make([]chunk, len(b.chunks))
	for i, ch := range b.chunks {
		columns := make(map[string]value.Value, len(ch.columns))
		for k, v := range ch.columns {
			columns[k] = v
		}
		chunks[i] = chunk{len: ch.len, columns: columns}
	}
	return &Bulk{
		meta:   meta{count: b.meta.count, id: b.meta.id, versions: versions},
		chunks: chunks,
		cache:  b.cache.clone(),
	}
}

// chunkBounds returns the row range [start,end) covered by chunk i.
func (b *Bulk) chunkBounds(i int) (int, int) {
	start := i * ChunkSize
	end := start + ChunkSize
	if end > b.meta.count {
		end = b.meta.count
	}
	return start, end
}

// allocChunks lays down the chunk skeleton for the full row range.
func (b *Bulk) allocChunks() {
	n := (b.meta.count + ChunkSize - 1) / ChunkSize
	b.chunks = make([]chunk, n)
	for i := range b.chunks {
		start, end := b.chunkBounds(i)
		b.chunks[i] = chunk{len: end - start, columns: make(map[string]value.Value)}
	}
}

func (b *Bulk) bumpVersion(field string) error {
	cur := b.meta.versions[field]
	if cur == math.MaxUint64 {
		return fmt.Errorf("%w: version overflow for field %q", ErrInvalidArgument, field)
	}
	b.meta.versions[field] = cur + 1
	return nil
}

// Set returns a new Bulk with field set to values, one Value per row.
//
// The field must be registered; the first value must pass the field's
// validator; every value must have the same length as the first. The new
// Bulk carries a bumped version for the field and drops the cache entries
// of every derived field that (transitively) depends on it.
func (b *Bulk) Set(reg *schema.Registry, field string, values []value.Value) (*Bulk, error) {
	if !reg.Has(field) {
		return nil, fieldNotFoundError(field)
	}
	if len(values) != b.meta.count {
		return nil, &ErrLengthMismatch{Expected: b.meta.count, Actual: len(values)}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: values must not be empty", ErrInvalidArgument)
	}

	first := values[0]
	if !reg.Validate(field, first) {
		return nil, fmt.Errorf("%w: field %q", ErrValidationFailed, field)
	}
	firstLen := first.Len()
	for i, v := range values {
		if v.Kind != first.Kind {
			// FromScalars only sees one chunk at a time; a kind switch at a
			// chunk boundary would otherwise commit and fail later in Get.
			return nil, fmt.Errorf("%w: value at index %d has kind %s, want %s", ErrInvalidArgument, i, v.Kind, first.Kind)
		}
		if v.Len() != firstLen {
			return nil, fmt.Errorf("%w: value at index %d has different length", ErrInvalidArgument, i)
		}
	}

	nb := b.clone()
	if len(nb.chunks) == 0 {
		nb.allocChunks()
	}

	for i := range nb.chunks {
		start, end := nb.chunkBounds(i)
		col, err := value.FromScalars(values[start:end])
		if err != nil {
			return nil, translateError(err)
		}
		nb.chunks[i].columns[field] = col
	}

	if err := nb.bumpVersion(field); err != nil {
		return nil, err
	}
	nb.invalidateDependents(reg, field)

	return nb, nil
}

// invalidateDependents drops the cache entries of every derived field that
// transitively depends on field. The registry guarantees an acyclic graph;
// the seen set only avoids revisiting shared dependents.
func (b *Bulk) invalidateDependents(reg *schema.Registry, field string) {
	seen := map[string]bool{field: true}
	work := []string{field}

	for len(work) > 0 {
		cur := work[0]
		work = work[1:]

		for _, name := range reg.Fields() {
			if seen[name] {
				continue
			}
			f, ok := reg.Field(name)
			if !ok || !f.Derived {
				continue
			}
			for _, dep := range f.Dependencies {
				if dep == cur {
					b.cache.invalidate(name)
					seen[name] = true
					work = append(work, name)
					break
				}
			}
		}
	}
}

// Get resolves field to its full-length vector Value spanning all rows.
//
// Stored fields are reassembled from the chunks on every call. Derived
// fields consult the memoization cache first and recompute (caching the
// result) when the dependency-version snapshot no longer matches.
func (b *Bulk) Get(reg *schema.Registry, field string) (value.Value, error) {
	f, ok := reg.Field(field)
	if !ok {
		return value.Value{}, fieldNotFoundError(field)
	}
	if f.Derived {
		return b.getDerived(reg, field, f)
	}
	return b.getStored(field)
}

func (b *Bulk) getStored(field string) (value.Value, error) {
	if len(b.chunks) == 0 {
		return value.Value{}, fieldNotFoundError(field)
	}

	var out value.Value
	for i, ch := range b.chunks {
		col, ok := ch.columns[field]
		if !ok {
			return value.Value{}, fmt.Errorf("%w: %q missing from chunk", ErrFieldNotFound, field)
		}
		if i == 0 {
			out = col
			continue
		}
		joined, err := out.Concat(col)
		if err != nil {
			return value.Value{}, translateError(err)
		}
		out = joined
	}
	if len(b.chunks) == 1 {
		// Concat already produced fresh slices; the single-chunk path would
		// otherwise alias the stored column.
		out = out.Clone()
	}
	return out, nil
}

func (b *Bulk) getDerived(reg *schema.Registry, field string, f *schema.Field) (value.Value, error) {
	out, err := b.cache.do(field, func() (value.Value, error) {
		// Re-check under the flight so late arrivals after a completed
		// computation take the cached column instead of recomputing.
		if want, err := b.depVersionSnapshot(reg, f); err == nil {
			if v, ok := b.cache.lookup(field, want); ok {
				return v, nil
			}
		}

		deps := make([]value.Value, len(f.Dependencies))
		for i, dep := range f.Dependencies {
			v, err := b.Get(reg, dep)
			if err != nil {
				return value.Value{}, err
			}
			deps[i] = v
		}

		b.cache.computes.Add(1)
		out, err := f.Rule.Compute(deps)
		if err != nil {
			return value.Value{}, err
		}

		snap, err := b.depVersionSnapshot(reg, f)
		if err != nil {
			return value.Value{}, err
		}
		b.cache.store(field, out, snap)

		return out, nil
	})
	if err != nil {
		return value.Value{}, err
	}
	// Every caller gets its own copy so mutation can never reach the cache
	// entry shared by later reads.
	return out.Clone(), nil
}

// depVersionSnapshot captures the current version of every dependency of a
// derived field, in declared order. Derived dependencies contribute a
// fixed placeholder of 0 — they have no counter; the invalidation cascade
// keeps nested chains honest.
func (b *Bulk) depVersionSnapshot(reg *schema.Registry, f *schema.Field) ([]uint64, error) {
	snap := make([]uint64, len(f.Dependencies))
	for i, dep := range f.Dependencies {
		dm, ok := reg.Field(dep)
		if !ok {
			return nil, fieldNotFoundError(dep)
		}
		if dm.Derived {
			snap[i] = 0
			continue
		}
		v, ok := b.meta.versions[dep]
		if !ok {
			return nil, fieldNotFoundError(dep)
		}
		snap[i] = v
	}
	return snap, nil
}

// ApplyFunc transforms the masked subsequence of one field's per-row
// scalars. It must return exactly as many values as it received.
type ApplyFunc func(subset []value.Value) ([]value.Value, error)

// Apply returns a new Bulk with fn applied to the masked rows of every
// populated data field.
//
// An empty mask is treated as all-true. Every field is rewritten and
// re-versioned — including fields fn does not logically touch — so any
// derived field depending on any stored field is invalidated.
func (b *Bulk) Apply(mask []bool, fn ApplyFunc) (*Bulk, error) {
	return b.applyFields(nil, mask, fn)
}

func (b *Bulk) applyFields(reg *schema.Registry, mask []bool, fn ApplyFunc) (*Bulk, error) {
	if len(mask) == 0 {
		mask = make([]bool, b.meta.count)
		for i := range mask {
			mask[i] = true
		}
	} else if len(mask) != b.meta.count {
		return nil, &ErrLengthMismatch{Expected: b.meta.count, Actual: len(mask)}
	}

	trueCount := 0
	for _, m := range mask {
		if m {
			trueCount++
		}
	}

	nb := b.clone()

	fields := b.DataFields()
	for _, field := range fields {
		rows, err := b.columnRows(field)
		if err != nil {
			return nil, err
		}

		subset := make([]value.Value, 0, trueCount)
		for i, m := range mask {
			if m {
				subset = append(subset, rows[i])
			}
		}

		replaced, err := fn(subset)
		if err != nil {
			return nil, err
		}
		if len(replaced) != trueCount {
			return nil, &ErrLengthMismatch{Expected: trueCount, Actual: len(replaced)}
		}

		next := 0
		for i, m := range mask {
			if m {
				rows[i] = replaced[next]
				next++
			}
		}

		for i := range nb.chunks {
			start, end := nb.chunkBounds(i)
			col, err := value.FromScalars(rows[start:end])
			if err != nil {
				return nil, translateError(err)
			}
			nb.chunks[i].columns[field] = col
		}

		if err := nb.bumpVersion(field); err != nil {
			return nil, err
		}
	}

	if reg != nil {
		for _, field := range fields {
			nb.invalidateDependents(reg, field)
		}
	} else {
		// Without a registry the dependency graph is unknown; drop every
		// cached derived column.
		nb.cache = newDerivedCache()
	}

	return nb, nil
}

// columnRows flattens a stored field into one scalar Value per row.
func (b *Bulk) columnRows(field string) ([]value.Value, error) {
	rows := make([]value.Value, 0, b.meta.count)
	for _, ch := range b.chunks {
		col, ok := ch.columns[field]
		if !ok {
			continue
		}
		if !col.IsVector() {
			return nil, fmt.Errorf("%w: field %q is not a vector column", ErrInvalidArgument, field)
		}
		for i := 0; i < ch.len; i++ {
			el, err := col.Element(i)
			if err != nil {
				return nil, translateError(err)
			}
			rows = append(rows, el)
		}
	}
	if len(rows) != b.meta.count {
		return nil, fmt.Errorf("%w: field %q data incomplete", ErrFieldNotFound, field)
	}
	return rows, nil
}

// At returns a read accessor bound to the row at idx.
func (b *Bulk) At(idx int) (*Proxy, error) {
	return newProxy(b, idx)
}

// PartitionBy buckets the rows by the distinct values of a field (stored
// or derived) and returns one View per bucket, each over the current
// snapshot.
//
// Integers and strings partition by observed values in ascending order.
// Booleans always yield exactly two buckets, true then false. Floats
// deduplicate by IEEE-754 bit pattern (distinct NaN payloads are distinct
// buckets) while mask matching treats any NaN as equal to any NaN.
func (b *Bulk) PartitionBy(reg *schema.Registry, field string) ([]*View, error) {
	col, err := b.Get(reg, field)
	if err != nil {
		return nil, err
	}

	var keys []value.Value
	var masks [][]bool

	switch col.Kind {
	case value.KindIntVector:
		seen := make(map[int64]struct{})
		uniq := make([]int64, 0)
		for _, x := range col.Ints {
			if _, ok := seen[x]; !ok {
				seen[x] = struct{}{}
				uniq = append(uniq, x)
			}
		}
		sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
		for _, u := range uniq {
			mask := make([]bool, len(col.Ints))
			for i, x := range col.Ints {
				mask[i] = x == u
			}
			keys = append(keys, value.Int(u))
			masks = append(masks, mask)
		}

	case value.KindStringVector:
		seen := make(map[string]struct{})
		uniq := make([]string, 0)
		for _, x := range col.Strings {
			if _, ok := seen[x]; !ok {
				seen[x] = struct{}{}
				uniq = append(uniq, x)
			}
		}
		sort.Strings(uniq)
		for _, u := range uniq {
			mask := make([]bool, len(col.Strings))
			for i, x := range col.Strings {
				mask[i] = x == u
			}
			keys = append(keys, value.String(u))
			masks = append(masks, mask)
		}

	case value.KindBoolVector:
		for _, u := range []bool{true, false} {
			mask := make([]bool, len(col.Bools))
			for i, x := range col.Bools {
				mask[i] = x == u
			}
			keys = append(keys, value.Bool(u))
			masks = append(masks, mask)
		}

	case value.KindFloatVector:
		seen := make(map[uint64]struct{})
		uniq := make([]float64, 0)
		for _, x := range col.Floats {
			bits := math.Float64bits(x)
			if _, ok := seen[bits]; !ok {
				seen[bits] = struct{}{}
				uniq = append(uniq, x)
			}
		}
		sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
		for _, u := range uniq {
			mask := make([]bool, len(col.Floats))
			for i, x := range col.Floats {
				mask[i] = x == u || (math.IsNaN(u) && math.IsNaN(x))
			}
			keys = append(keys, value.Float(u))
			masks = append(masks, mask)
		}

	default:
		return nil, fmt.Errorf("%w: partition field must be a vector", ErrInvalidArgument)
	}

	views := make([]*View, len(keys))
	for i := range keys {
		v, err := NewView(keys[i], masks[i], b)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}
	return views, nil
}
