// Package memstore provides the default entry store: an unbounded sharded
// in-memory map. Entries stay resident until deleted; there is no TTL and
// no eviction, so a cached entry survives exactly until a tag it was
// registered under is invalidated.
package memstore

import (
	"sync"

	"github.com/princess-entrapta/tagcache/internal/util"
	"github.com/princess-entrapta/tagcache/store"
)

// Store is a sharded map[string][]byte. Each shard has its own RWMutex:
// readers of any keys proceed in parallel, and a write only excludes
// access to its own shard.
type Store struct {
	shards []*shard
}

type shard struct {
	mu sync.RWMutex
	m  map[string][]byte
}

var _ store.Store = (*Store)(nil)

// New returns an empty store with n shards. n is rounded up to a power of
// two; n <= 0 selects a default based on CPU parallelism.
func New(n int) *Store {
	n = util.ShardCount(n)
	s := &Store{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{m: make(map[string][]byte)}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	return s.shards[util.ShardIndex(key, len(s.shards))]
}

// Get returns the value stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	v, ok := sh.m[key]
	sh.mu.RUnlock()
	return v, ok
}

// Swap stores value under key and returns the value it replaced, if any.
func (s *Store) Swap(key string, value []byte) (prev []byte, replaced bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	prev, replaced = sh.m[key]
	sh.m[key] = value
	sh.mu.Unlock()
	return prev, replaced
}

// Set stores value under key. The write is never refused.
func (s *Store) Set(key string, value []byte) bool {
	s.Swap(key, value)
	return true
}

// Take removes key and returns the value it held.
func (s *Store) Take(key string) (removed []byte, ok bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	removed, ok = sh.m[key]
	if ok {
		delete(sh.m, key)
	}
	sh.mu.Unlock()
	return removed, ok
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.Take(key)
}

// Len returns the number of resident entries across all shards.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

// Close is a no-op; the store holds no resources beyond its maps.
func (s *Store) Close() error { return nil }
