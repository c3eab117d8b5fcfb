// Package bigcache adapts allegro/bigcache as a bounded entry store.
//
// BigCache ages every entry out after the configured LifeWindow, so
// entries can disappear without a tag ever being invalidated. Use it when
// a hard memory cap matters more than indefinite retention.
package bigcache

import (
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/princess-entrapta/tagcache/store"
)

type Store struct {
	c *bc.BigCache
}

var _ store.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(key string) ([]byte, bool) {
	b, err := s.c.Get(key)
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *Store) Set(key string, value []byte) bool {
	return s.c.Set(key, value) == nil
}

func (s *Store) Delete(key string) {
	_ = s.c.Delete(key)
}

func (s *Store) Close() error {
	return s.c.Close()
}
