// Package codec centralizes decoding of keyword-argument records.
//
// Hosts pass each function's configuration as a serialized record; the
// plugin registry decodes it with a Codec before the call runs.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// DecodeKwargs decodes data over defaults. Fields absent from data keep
// their default; empty data returns defaults unchanged.
func DecodeKwargs[T any](c Codec, data []byte, defaults T) (T, error) {
	if c == nil {
		c = Default
	}
	out := defaults
	if len(data) == 0 {
		return out, nil
	}
	if err := c.Unmarshal(data, &out); err != nil {
		return defaults, fmt.Errorf("codec %s: decode kwargs: %w", c.Name(), err)
	}
	return out, nil
}

// MustMarshal is a helper for tests and tooling.
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
