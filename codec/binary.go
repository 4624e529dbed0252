package codec

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Binary is a gob-backed binary codec.
//
// Unlike the JSON codecs it preserves NaN and infinity bit patterns
// exactly. The wire form is not self-describing; pair it with ByName when
// persisting.
type Binary struct{}

// Marshal encodes the value with encoding/gob.
func (Binary) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the gob data into v.
func (Binary) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// Name returns the unique name of the codec ("binary").
func (Binary) Name() string { return "binary" }

// BinaryZstd is the gob codec with zstd block compression.
type BinaryZstd struct{}

// Marshal gob-encodes the value and compresses the result.
func (BinaryZstd) Marshal(v any) ([]byte, error) {
	raw, err := (Binary{}).Marshal(v)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// Unmarshal decompresses the data and gob-decodes it into v.
func (BinaryZstd) Unmarshal(data []byte, v any) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return err
	}
	return (Binary{}).Unmarshal(raw, v)
}

// Name returns the unique name of the codec ("binary+zstd").
func (BinaryZstd) Name() string { return "binary+zstd" }

// BinaryLZ4 is the gob codec with lz4 frame compression.
type BinaryLZ4 struct{}

// Marshal gob-encodes the value and compresses the result.
func (BinaryLZ4) Marshal(v any) ([]byte, error) {
	raw, err := (Binary{}).Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decompresses the data and gob-decodes it into v.
func (BinaryLZ4) Unmarshal(data []byte, v any) error {
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	return (Binary{}).Unmarshal(raw, v)
}

// Name returns the unique name of the codec ("binary+lz4").
func (BinaryLZ4) Name() string { return "binary+lz4" }
