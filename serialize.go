package soago

import (
	"fmt"

	"github.com/hupe1980/soago/codec"
	"github.com/hupe1980/soago/value"
)

// Wire forms serialize meta and chunks verbatim. The derived cache is
// never persisted; a decoded Bulk starts with a cold cache.

type metaWire struct {
	Count    int               `json:"count" toml:"count"`
	ID       []int             `json:"id" toml:"id"`
	Versions map[string]uint64 `json:"versions,omitempty" toml:"versions,omitempty"`
}

type chunkWire struct {
	Len     int                    `json:"len" toml:"len"`
	Columns map[string]value.Value `json:"columns,omitempty" toml:"columns,omitempty"`
}

type bulkWire struct {
	Meta   metaWire    `json:"meta" toml:"meta"`
	Chunks []chunkWire `json:"chunks,omitempty" toml:"chunks,omitempty"`
}

// MarshalBulk encodes the whole Bulk (meta and chunks, never the cache)
// with c. A nil codec falls back to codec.Default.
func MarshalBulk(c codec.Codec, b *Bulk) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}

	w := bulkWire{
		Meta: metaWire{
			Count:    b.meta.count,
			ID:       b.meta.id,
			Versions: b.meta.versions,
		},
		Chunks: make([]chunkWire, len(b.chunks)),
	}
	for i, ch := range b.chunks {
		w.Chunks[i] = chunkWire{Len: ch.len, Columns: ch.columns}
	}

	return c.Marshal(w)
}

// UnmarshalBulk decodes a Bulk previously produced by MarshalBulk with the
// same codec. The returned Bulk has a fresh, empty derived cache.
func UnmarshalBulk(c codec.Codec, data []byte) (*Bulk, error) {
	if c == nil {
		c = codec.Default
	}

	var w bulkWire
	if err := c.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if w.Meta.Count <= 0 {
		return nil, fmt.Errorf("%w: bulk count must be greater than 0", ErrInvalidArgument)
	}

	m := meta{
		count:    w.Meta.Count,
		id:       w.Meta.ID,
		versions: w.Meta.Versions,
	}
	if m.versions == nil {
		m.versions = make(map[string]uint64)
	}
	if len(m.id) == 0 {
		m.id = make([]int, m.count)
		for i := range m.id {
			m.id[i] = i
		}
	} else if len(m.id) != m.count {
		return nil, fmt.Errorf("%w: id length %d does not match count %d", ErrInvalidArgument, len(m.id), m.count)
	}

	// Chunk lengths must tile [0,count) exactly; row accessors index the
	// id slice from them and would panic on inconsistent wire data.
	if len(w.Chunks) > 0 {
		want := (m.count + ChunkSize - 1) / ChunkSize
		if len(w.Chunks) != want {
			return nil, fmt.Errorf("%w: got %d chunks, want %d for count %d", ErrInvalidArgument, len(w.Chunks), want, m.count)
		}
	}

	chunks := make([]chunk, len(w.Chunks))
	for i, cw := range w.Chunks {
		start := i * ChunkSize
		end := start + ChunkSize
		if end > m.count {
			end = m.count
		}
		if cw.Len != end-start {
			return nil, fmt.Errorf("%w: chunk %d has length %d, want %d", ErrInvalidArgument, i, cw.Len, end-start)
		}
		columns := cw.Columns
		if columns == nil {
			columns = make(map[string]value.Value)
		}
		chunks[i] = chunk{len: cw.Len, columns: columns}
	}

	return &Bulk{meta: m, chunks: chunks, cache: newDerivedCache()}, nil
}
