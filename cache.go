package tagcache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/princess-entrapta/tagcache/codec"
	"github.com/princess-entrapta/tagcache/internal/tagindex"
	"github.com/princess-entrapta/tagcache/store"
)

// Cache is a concurrency-safe memoization cache with tag-based
// invalidation. Entries are type-erased: one Cache serves call sites with
// unrelated argument and result types, because arguments and results only
// exist inside it as codec-encoded bytes.
//
// The zero value is not usable; construct with New. All methods and the
// package-level Cached* functions may be called from any goroutine.
type Cache struct {
	store   store.Store
	tags    *tagindex.Index
	codec   codec.Codec
	log     Logger
	metrics Metrics
	flight  *singleflight.Group // nil unless WithSingleflight
}

// Result carries the outcome of a computation delivered over a channel.
// Exactly one of Val and Err is meaningful; see CachedTask.
type Result[V any] struct {
	Val V
	Err error
}

// Invalidate evicts every entry whose key was registered under tag and
// forgets the tag. Unknown tags are a no-op. Invalidate cannot fail and
// returns once all evictions are done.
//
// A fill racing Invalidate on the same tag lands either before the tag's
// key set is taken (and is evicted with the rest) or after (and survives
// as a fresh entry); both orders are valid. A key registered under several
// tags remains listed in the surviving tags' sets; invalidating one of
// those later just issues a redundant delete.
func (c *Cache) Invalidate(tag string) {
	keys := c.tags.Take(tag)
	for _, k := range keys {
		c.store.Delete(k)
	}
	c.metrics.Invalidate(tag, len(keys))
	c.log.Debug("invalidated tag", Fields{"tag": tag, "keys": len(keys)})
}

// Close releases the underlying store's resources. The default in-memory
// store holds none; the bounded stores do.
func (c *Cache) Close() error {
	return c.store.Close()
}

// encodeKey turns an argument into its lookup key. The []byte to string
// conversion copies, so the key is immutable from here on.
func (c *Cache) encodeKey(arg any) (string, error) {
	b, err := c.codec.Marshal(arg)
	if err != nil {
		return "", &EncodeError{What: "argument", Err: err}
	}
	return string(b), nil
}

func (c *Cache) register(key string, tags []string) {
	for _, t := range tags {
		c.tags.Add(t, key)
	}
}

// Cached returns the memoized result of fn(ctx, arg), keyed by arg's
// encoding and registered under tags.
//
// On a hit the stored bytes are decoded and fn does not run. On a miss fn
// runs on the calling goroutine; its result is encoded, stored, and the
// key is registered under every tag in tags before Cached returns. With an
// empty tag list the entry is cached but out of reach of Invalidate. If fn
// fails, nothing is stored and its error is returned unchanged.
//
// fn must be pure: for equal arguments it must produce results that are
// interchangeable after an encode/decode round trip. Purity is not
// checked. Two goroutines missing on the same argument may both run fn
// (unless WithSingleflight is set); the last write wins and either result
// is served afterwards.
func Cached[A, V any](ctx context.Context, c *Cache, tags []string, fn func(context.Context, A) (V, error), arg A) (V, error) {
	return getOrCompute(ctx, c, tags, arg, func(runCtx context.Context) (V, error) {
		return fn(runCtx, arg)
	})
}

// CachedAsync is Cached with the computation running on its own goroutine.
// The caller blocks until the result arrives or ctx ends, whichever is
// first. When ctx ends first the call returns ctx.Err() and stores
// nothing; the goroutine keeps running and its result is discarded, so fn
// should watch its context if it can run long.
func CachedAsync[A, V any](ctx context.Context, c *Cache, tags []string, fn func(context.Context, A) (V, error), arg A) (V, error) {
	return getOrCompute(ctx, c, tags, arg, func(runCtx context.Context) (V, error) {
		ch := make(chan Result[V], 1)
		go func() {
			v, err := fn(runCtx, arg)
			ch <- Result[V]{Val: v, Err: err}
		}()
		return await(runCtx, ch)
	})
}

// CachedTask is Cached for computations that are scheduled elsewhere. On a
// miss, start is called once; it must hand the computation off (to a
// worker pool, a job runner) and return the channel on which the task will
// deliver its Result. On a hit start is not called and no task is spawned.
//
// A channel that is closed without delivering a value means the task ended
// abnormally; the call then fails with ErrTaskAborted and stores nothing.
func CachedTask[A, V any](ctx context.Context, c *Cache, tags []string, start func(context.Context, A) <-chan Result[V], arg A) (V, error) {
	return getOrCompute(ctx, c, tags, arg, func(runCtx context.Context) (V, error) {
		return await(runCtx, start(runCtx, arg))
	})
}

// Refresh runs fn(ctx, arg) unconditionally and overwrites whatever the
// cache held for that argument, re-registering the key under tags. Use it
// when the cached result is known stale but the entry should stay warm.
//
// Memberships from earlier fills are not cleaned up: an entry first cached
// under "a" and refreshed under "b" is still evicted when "a" is
// invalidated. Keep a call site's tag list stable to avoid surprises.
func Refresh[A, V any](ctx context.Context, c *Cache, tags []string, fn func(context.Context, A) (V, error), arg A) (V, error) {
	var zero V
	key, err := c.encodeKey(arg)
	if err != nil {
		return zero, err
	}
	v, err := fn(ctx, arg)
	if err != nil {
		return zero, err
	}
	stored, err := fill(c, key, v, true)
	if err != nil {
		return zero, err
	}
	if stored {
		c.register(key, tags)
	}
	return v, nil
}

// getOrCompute is the shared miss path: probe, compute via run, store,
// register. run receives the context the computation should observe.
func getOrCompute[A, V any](ctx context.Context, c *Cache, tags []string, arg A, run func(context.Context) (V, error)) (V, error) {
	var zero V
	key, err := c.encodeKey(arg)
	if err != nil {
		return zero, err
	}

	v, ok, err := lookup[V](c, key)
	if err != nil {
		return zero, err
	}
	if ok {
		c.metrics.Hit()
		return v, nil
	}
	c.metrics.Miss()

	if c.flight == nil {
		v, err := run(ctx)
		if err != nil {
			return zero, err
		}
		stored, err := fill(c, key, v, false)
		if err != nil {
			return zero, err
		}
		if stored {
			c.register(key, tags)
		}
		return v, nil
	}

	v, stored, err := flightCompute(ctx, c, key, run)
	if err != nil {
		return zero, err
	}
	if stored {
		// Each coalesced caller registers its own tag list, matching what
		// independent racing fills would have registered.
		c.register(key, tags)
	}
	return v, nil
}

type flightOutcome[V any] struct {
	val    V
	stored bool // value is resident in the store
}

// flightCompute deduplicates the computation per key. The leader stores
// the value inside the flight; followers share it without re-encoding.
// The computation runs detached from any single caller's context so that
// one caller's cancellation cannot fail the others; every caller's own
// wait still honors its own ctx.
func flightCompute[V any](ctx context.Context, c *Cache, key string, run func(context.Context) (V, error)) (V, bool, error) {
	var zero V
	runCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		// A racing caller may have filled the entry between our probe and
		// this flight starting.
		if v, ok, err := lookup[V](c, key); err != nil {
			return nil, err
		} else if ok {
			return flightOutcome[V]{val: v, stored: true}, nil
		}
		v, err := run(runCtx)
		if err != nil {
			return nil, err
		}
		stored, err := fill(c, key, v, false)
		if err != nil {
			return nil, err
		}
		return flightOutcome[V]{val: v, stored: stored}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		out, ok := res.Val.(flightOutcome[V])
		if !ok {
			return zero, false, &DecodeError{Err: fmt.Errorf("coalesced callers requested different result types")}
		}
		return out.val, out.stored, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// lookup probes the store and decodes on hit.
func lookup[V any](c *Cache, key string) (V, bool, error) {
	var v V
	raw, ok := c.store.Get(key)
	if !ok {
		return v, false, nil
	}
	if err := c.codec.Unmarshal(raw, &v); err != nil {
		var zero V
		return zero, false, &DecodeError{Err: err}
	}
	return v, true, nil
}

// fill encodes v and writes it under key. stored=false means the store
// refused the write; the caller then skips tag registration so no tag
// lists a key that was never resident.
func fill[V any](c *Cache, key string, v V, forced bool) (stored bool, err error) {
	raw, err := c.codec.Marshal(v)
	if err != nil {
		return false, &EncodeError{What: "value", Err: err}
	}
	if !c.store.Set(key, raw) {
		c.log.Warn("store refused write", Fields{"bytes": len(raw)})
		return false, nil
	}
	c.metrics.Fill(forced)
	c.log.Debug("cached value", Fields{"bytes": len(raw), "forced": forced})
	return true, nil
}

// await blocks until the computation delivers a Result or ctx ends. A nil
// or closed channel without a value reports ErrTaskAborted.
func await[V any](ctx context.Context, ch <-chan Result[V]) (V, error) {
	var zero V
	if ch == nil {
		return zero, ErrTaskAborted
	}
	select {
	case r, ok := <-ch:
		if !ok {
			return zero, ErrTaskAborted
		}
		return r.Val, r.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
