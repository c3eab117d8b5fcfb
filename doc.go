// Package tagcache memoizes arbitrary computations in a concurrency-safe
// in-process cache with tag-based invalidation. A later call with an equal
// argument decodes the stored result instead of recomputing; invalidating
// a tag evicts, in one operation, every entry ever registered under it.
//
// Components:
//   - store.Store: byte store for entries. Unbounded sharded in-memory map
//     by default; Ristretto and BigCache backed stores for bounded use.
//   - codec.Codec: (de)serializes arguments and results. Msgpack by
//     default; CBOR, JSON, Protobuf and Raw codecs are provided.
//   - tag index: remembers which keys were registered under which tags;
//     consumed by Invalidate.
//
// Entries are type-erased bytes, so one cache serves call sites with
// unrelated argument and result types. Three call variants share one
// contract and differ only in how the computation runs on a miss: Cached
// runs it inline, CachedAsync runs it on its own goroutine with a
// context-aware wait, and CachedTask awaits a task scheduled elsewhere.
// Refresh recomputes unconditionally and overwrites.
//
// Pattern:
//
//	c := tagcache.New()
//	n, err := tagcache.Cached(ctx, c, []string{"squares"}, square, 4)
//	u, err := tagcache.Cached(ctx, c, []string{"users"}, loadUser, userID)
//	c.Invalidate("users") // evicts every entry tagged "users"
//
// Because entries are type-erased, call sites whose arguments could encode
// to the same bytes must not share a cache with different result types;
// wrap such arguments in one discriminating type per cache so keys cannot
// collide. Decoding a colliding entry fails with DecodeError.
//
// Concurrent misses on one argument may each run the computation and the
// last write wins; WithSingleflight collapses them into one computation
// per key instead.
package tagcache
