// Package codec defines how the cache turns arguments and results into the
// bytes it stores. One codec serves a whole cache instance: arguments
// become lookup keys and results become stored values through the same
// encoding.
//
// Key stability is part of the contract: Marshal must produce identical
// bytes for equal values, or lookups with a logically equal argument will
// miss. Every codec in this package encodes map keys in a stable order for
// that reason.
package codec

// Codec encodes values to []byte for storage and decodes them back.
// Unmarshal's v is a pointer to the destination, as in encoding/json.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
