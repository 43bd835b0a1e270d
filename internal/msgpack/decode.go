// Package msgpack provides the MessagePack codec for Flight tickets and
// action bodies.
//
// Decoding is strict: a field the target struct does not declare is an
// error, so a misspelled request key fails instead of being ignored.
// Encoding sorts map keys, which makes equal tickets byte-identical.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmpty is returned by Decode for empty input.
var ErrEmpty = errors.New("empty MessagePack data")

// Decode deserializes MessagePack data into the struct, map or slice v
// points to.
//
//	var req SetFilterRequest
//	err := msgpack.Decode(body, &req)
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmpty
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return nil
}

// Encode serializes v into MessagePack.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return buf.Bytes(), nil
}
