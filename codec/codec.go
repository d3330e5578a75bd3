// Package codec turns setting values into the bytes a provider stores.
//
// Settings are dynamically typed (numbers, booleans, string lists), so tiers use
// Codec[any]. Decoders are free to return whatever numeric or list types their
// format produces; the settings store normalizes them per key.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
