// Package store defines the byte store that backs the cache.
//
// Implementations must be safe for concurrent use and byte-transparent:
// Get returns exactly the bytes previously passed to Set for that key,
// with no added framing or re-encoding. Stores are in-process, so lookups
// and writes do not fail, they hit or miss. A bounded store may refuse a
// write or drop an entry later; the cache observes either as a miss and
// recomputes.
//
// The cache always hands Set a freshly allocated buffer and never mutates
// a buffer returned by Get, so implementations may keep or return slices
// without copying.
package store

// Store is a minimal in-process byte store.
type Store interface {
	// Get returns the value stored under key, ok=false on miss.
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value. ok=false
	// means the store refused the write (admission policy, pressure);
	// callers must then treat the entry as not cached.
	Set(key string, value []byte) (ok bool)

	// Delete removes key if present. Unknown keys are a no-op.
	Delete(key string)

	// Close releases resources held by the store.
	Close() error
}
