package checkout

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// KeyGuard remembers the idempotency keys of committed sales so an
// already-completed checkout cannot be fired again by a stale client.
// The bloom filter answers the common "never seen" case without
// touching the map; hits are confirmed exactly.
type KeyGuard struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	keys   map[string]struct{}
}

// NewKeyGuard sizes the guard for the expected number of sales per
// terminal session.
func NewKeyGuard(expectedKeys uint) *KeyGuard {
	if expectedKeys == 0 {
		expectedKeys = 10000
	}
	return &KeyGuard{
		filter: bloom.NewWithEstimates(expectedKeys, 0.001),
		keys:   make(map[string]struct{}),
	}
}

// Retire records the key of a committed sale.
func (g *KeyGuard) Retire(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filter.AddString(key)
	g.keys[key] = struct{}{}
}

// Retired reports whether the key belongs to a committed sale.
func (g *KeyGuard) Retired(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.filter.TestString(key) {
		return false
	}
	_, ok := g.keys[key]
	return ok
}
