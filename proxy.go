package soago

import (
	"fmt"

	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

// Proxy is a read accessor bound to one row of one Bulk snapshot. It
// carries no state beyond the index and cannot mutate the parent.
type Proxy struct {
	bulk *Bulk
	idx  int
}

func newProxy(b *Bulk, idx int) (*Proxy, error) {
	if idx < 0 || idx >= b.meta.count {
		return nil, &ErrIndexOutOfBounds{Index: idx, Max: b.meta.count}
	}
	return &Proxy{bulk: b, idx: idx}, nil
}

// Index returns the row index the proxy is bound to.
func (p *Proxy) Index() int { return p.idx }

// Bulk returns the underlying snapshot.
func (p *Proxy) Bulk() *Bulk { return p.bulk }

// GetField resolves field on the parent Bulk and extracts this row's
// scalar from it.
func (p *Proxy) GetField(reg *schema.Registry, field string) (value.Value, error) {
	col, err := p.bulk.Get(reg, field)
	if err != nil {
		return value.Value{}, err
	}
	if !col.IsVector() {
		return value.Value{}, fmt.Errorf("%w: field %q did not resolve to a vector", ErrInvalidArgument, field)
	}
	el, err := col.Element(p.idx)
	if err != nil {
		return value.Value{}, translateError(err)
	}
	return el, nil
}
