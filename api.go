package tagcache

import (
	"golang.org/x/sync/singleflight"

	"github.com/princess-entrapta/tagcache/codec"
	"github.com/princess-entrapta/tagcache/internal/tagindex"
	"github.com/princess-entrapta/tagcache/store"
	"github.com/princess-entrapta/tagcache/store/memstore"
)

// Option configures a Cache. Options are applied in order by New.
type Option func(*config)

type config struct {
	store   store.Store
	codec   codec.Codec
	log     Logger
	metrics Metrics
	shards  int
	flight  bool
}

// WithStore replaces the default unbounded in-memory store. Bounded stores
// (store/ristretto, store/bigcache) may refuse writes or drop entries
// under pressure; the cache then recomputes on next use, so correctness is
// kept but the "cached until invalidated" guarantee is not.
func WithStore(s store.Store) Option {
	return func(c *config) { c.store = s }
}

// WithCodec replaces the default Msgpack codec. The codec covers both
// sides of an entry: arguments on the way to a key and results on the way
// to stored bytes.
func WithCodec(cd codec.Codec) Option {
	return func(c *config) { c.codec = cd }
}

// WithLogger enables logging through l. Without it the cache is silent.
func WithLogger(l Logger) Option {
	return func(c *config) { c.log = l }
}

// WithMetrics delivers hit/miss/fill/invalidation events to m.
func WithMetrics(m Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithShards sets the shard count for the tag index and, when no WithStore
// is given, for the default in-memory store. Rounded up to a power of two;
// n <= 0 keeps the CPU-based default.
func WithShards(n int) Option {
	return func(c *config) { c.shards = n }
}

// WithSingleflight collapses concurrent misses on the same key into one
// computation. Without it racing callers may each run the computation and
// the last finished write wins, which is harmless for pure functions but
// wasteful for expensive ones. Coalesced callers share the leader's result
// yet still register their own tag lists, and their waits respect their
// own contexts.
func WithSingleflight() Option {
	return func(c *config) { c.flight = true }
}

// New returns an empty cache. With no options it memoizes into an
// unbounded sharded in-memory store using the Msgpack codec, with no
// logging, no metrics and no miss coalescing.
func New(opts ...Option) *Cache {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	c := &Cache{
		tags:    tagindex.New(cfg.shards),
		codec:   coalesce[codec.Codec](cfg.codec, codec.Msgpack{}),
		log:     coalesce[Logger](cfg.log, NopLogger{}),
		metrics: coalesce[Metrics](cfg.metrics, NopMetrics{}),
	}
	if cfg.store != nil {
		c.store = cfg.store
	} else {
		c.store = memstore.New(cfg.shards)
	}
	if cfg.flight {
		c.flight = new(singleflight.Group)
	}
	return c
}
