// Package codec centralizes payload encoding for soago.
//
// Codec selection is a compatibility boundary: if you change codecs, bytes
// produced by older codecs may no longer decode. Persisted forms should
// record the codec name and select it via ByName on load.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the default codec used by the library.
var Default Codec = GoJSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "toml":
		return TOML{}, true
	case "binary":
		return Binary{}, true
	case "binary+zstd":
		return BinaryZstd{}, true
	case "binary+lz4":
		return BinaryLZ4{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
