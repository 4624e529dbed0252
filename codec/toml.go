package codec

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// TOML is a codec backed by github.com/BurntSushi/toml.
//
// TOML has no top-level arrays; callers encode a wrapping table (the bulk
// and record wire forms already are structs).
type TOML struct{}

// Marshal encodes the value to TOML.
func (TOML) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the TOML data into v.
func (TOML) Unmarshal(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// Name returns the unique name of the codec ("toml").
func (TOML) Name() string { return "toml" }
