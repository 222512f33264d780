package cache

import (
	"fmt"
	"time"
)

// Memo is a memoizing proxy around one operation. The key function maps the
// call argument onto the comparable values that identify the result.
type Memo[A, V any] struct {
	cache *Cache
	op    string
	ttl   time.Duration
	key   func(A) []any
	fn    func(A) (V, error)
}

// Wrap builds a Memo for fn stored in c under op with the given ttl.
func Wrap[A, V any](c *Cache, op string, ttl time.Duration, key func(A) []any, fn func(A) (V, error)) *Memo[A, V] {
	return &Memo[A, V]{cache: c, op: op, ttl: ttl, key: key, fn: fn}
}

// TTL returns the proxy's time-to-live.
func (m *Memo[A, V]) TTL() time.Duration { return m.ttl }

// Call returns the cached result for arg while it is live, otherwise invokes
// the operation and caches a successful result. Concurrent misses on the same
// key may each compute; the last writer wins.
func (m *Memo[A, V]) Call(arg A) (V, error) {
	var zero V

	key, err := NewKey(m.op, m.key(arg)...)
	if err != nil {
		return zero, err
	}

	if cached, ok := m.cache.Get(key); ok {
		if v, ok := cached.(V); ok {
			return v, nil
		}
		return zero, fmt.Errorf("cache entry %s holds %T", key, cached)
	}

	m.cache.logger.Debug("cache miss", "key", key.String())
	v, err := m.fn(arg)
	if err != nil {
		return zero, err
	}
	m.cache.Set(key, v, m.ttl)
	return v, nil
}
