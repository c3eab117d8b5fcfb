// Package util contains internal helpers shared by the sharded store and
// the tag index (shard sizing and key-to-shard mapping).
package util

import (
	"runtime"

	"github.com/cespare/xxhash/v2"
)

// NextPow2 returns the smallest power of two >= x.
// Special cases:
//   - x <= 1 -> 1
//   - if the exact next power would overflow 64 bits, the result is clamped to 1<<63
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}

// ShardCount normalizes a requested shard count: values <= 0 select a
// default based on CPU parallelism (twice GOMAXPROCS, clamped to [1..256]),
// and the result is always rounded up to a power of two so shard selection
// can mask instead of mod.
func ShardCount(n int) int {
	if n <= 0 {
		p := runtime.GOMAXPROCS(0)
		if p < 1 {
			p = 1
		}
		n = 2 * p
		if n > 256 {
			n = 256
		}
	}
	return int(NextPow2(uint64(n)))
}

// ShardIndex maps key to a shard index. shards must be a power of two.
func ShardIndex(key string, shards int) int {
	return int(xxhash.Sum64String(key) & uint64(shards-1))
}
