// Package tagindex tracks which cache keys were registered under which
// invalidation tags.
package tagindex

import (
	"sync"

	"github.com/princess-entrapta/tagcache/internal/util"
)

// Index is a sharded map from tag to the set of keys registered under it.
// A tag's set only grows between invalidations; Take removes the whole tag
// in one step. All methods are safe for concurrent use.
type Index struct {
	shards []*shard
}

type shard struct {
	mu   sync.Mutex
	tags map[string]map[string]struct{}
}

// New returns an empty index with n shards. n is rounded up to a power of
// two; n <= 0 selects a default based on CPU parallelism.
func New(n int) *Index {
	n = util.ShardCount(n)
	ix := &Index{shards: make([]*shard, n)}
	for i := range ix.shards {
		ix.shards[i] = &shard{tags: make(map[string]map[string]struct{})}
	}
	return ix
}

func (ix *Index) shardFor(tag string) *shard {
	return ix.shards[util.ShardIndex(tag, len(ix.shards))]
}

// Add registers key under tag, creating the tag's set on first use.
// Adding a key that is already a member is a no-op. Set creation and
// insert happen under one shard lock, so concurrent Adds for the same tag
// cannot lose members.
func (ix *Index) Add(tag, key string) {
	s := ix.shardFor(tag)
	s.mu.Lock()
	set, ok := s.tags[tag]
	if !ok {
		set = make(map[string]struct{})
		s.tags[tag] = set
	}
	set[key] = struct{}{}
	s.mu.Unlock()
}

// Take removes tag from the index and returns the keys it held, nil if the
// tag was never registered. Reading the set and clearing the tag are one
// atomic step with respect to Add: a concurrent Add lands either in the
// returned snapshot or in a fresh set for the tag, never nowhere.
func (ix *Index) Take(tag string) []string {
	s := ix.shardFor(tag)
	s.mu.Lock()
	set, ok := s.tags[tag]
	if ok {
		delete(s.tags, tag)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of live tags across all shards.
func (ix *Index) Len() int {
	n := 0
	for _, s := range ix.shards {
		s.mu.Lock()
		n += len(s.tags)
		s.mu.Unlock()
	}
	return n
}
