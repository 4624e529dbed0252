package soago

import (
	"fmt"
	"strings"

	"github.com/hupe1980/soago/codec"
	"github.com/hupe1980/soago/schema"
	"github.com/hupe1980/soago/value"
)

// Record is one row in array-of-records form.
type Record map[string]value.Value

type recordsWire struct {
	Records []Record `json:"records" toml:"records"`
}

// Records converts the Bulk to array-of-records form: one map per row
// holding the row "id" plus every populated data field. System fields are
// excluded.
func (b *Bulk) Records() []Record {
	records := make([]Record, 0, b.meta.count)

	for ci, ch := range b.chunks {
		base := ci * ChunkSize
		for i := 0; i < ch.len; i++ {
			rec := Record{"id": value.Int(int64(b.meta.id[base+i]))}
			for name, col := range ch.columns {
				if strings.HasPrefix(name, "_") {
					continue
				}
				if el, err := col.Element(i); err == nil {
					rec[name] = el
				}
			}
			records = append(records, rec)
		}
	}
	return records
}

// FromRecords builds a Bulk from array-of-records form by iterating the
// registry's non-derived fields: each record must carry the field and pass
// its validator; each column is then committed through Set once per field.
func FromRecords(reg *schema.Registry, records []Record) (*Bulk, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: cannot build bulk from empty records", ErrInvalidArgument)
	}

	b, err := NewBulk(len(records))
	if err != nil {
		return nil, err
	}

	for _, name := range reg.Fields() {
		f, ok := reg.Field(name)
		if !ok {
			return nil, fieldNotFoundError(name)
		}
		if f.Derived {
			continue
		}

		column := make([]value.Value, 0, len(records))
		for i, rec := range records {
			v, ok := rec[name]
			if !ok {
				return nil, fmt.Errorf("%w: missing field %q in record %d", ErrInvalidArgument, name, i)
			}
			if !f.Validator.Validate(v) {
				return nil, fmt.Errorf("%w: invalid value for field %q in record %d", ErrInvalidArgument, name, i)
			}
			column = append(column, v)
		}

		b, err = b.Set(reg, name, column)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

// MarshalRecords encodes the Bulk in array-of-records form with c. The
// records are wrapped in a "records" table so the same wire shape works
// for JSON, TOML and the binary codecs.
func MarshalRecords(c codec.Codec, b *Bulk) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	return c.Marshal(recordsWire{Records: b.Records()})
}

// UnmarshalRecords decodes array-of-records data produced by
// MarshalRecords and rebuilds a Bulk through FromRecords.
func UnmarshalRecords(c codec.Codec, data []byte, reg *schema.Registry) (*Bulk, error) {
	if c == nil {
		c = codec.Default
	}
	var w recordsWire
	if err := c.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return FromRecords(reg, w.Records)
}
