// Package ristretto adapts dgraph-io/ristretto as a bounded entry store.
//
// Admission is probabilistic and writes are buffered, so a Set may be
// refused or the entry evicted later under memory pressure. The cache
// treats both as a miss and recomputes, which trades the "cached until
// invalidated" guarantee for a memory ceiling.
package ristretto

import (
	"errors"

	rc "github.com/dgraph-io/ristretto"

	"github.com/princess-entrapta/tagcache/store"
)

type Store struct {
	c *rc.Cache
}

var _ store.Store = (*Store)(nil)

type Config struct {
	NumCounters int64 // keys to track access frequency for, ~10x expected entries
	MaxCost     int64 // total resident value bytes
	BufferItems int64 // per-Get buffer size, 64 if zero
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(key string) ([]byte, bool) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false
	}
	return b, true
}

// Set stores value at cost len(value). ok=false when the admission policy
// rejected the write.
func (s *Store) Set(key string, value []byte) bool {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	return s.c.Set(key, value, cost)
}

func (s *Store) Delete(key string) {
	s.c.Del(key)
}

func (s *Store) Close() error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's own counters (not part of store.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
