// Package cache memoizes expensive, deterministic queries for a fixed
// time-to-live. Stale entries are not evicted; they are ignored on lookup and
// overwritten by the next computation for the same key.
package cache

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Key identifies one cacheable call: an operation plus its arguments.
type Key struct {
	Op   string
	Args string
}

func (k Key) String() string {
	return k.Op + "(" + k.Args + ")"
}

// UnhashableArgumentError is returned when an argument cannot form part of a
// cache key. It indicates a programming error at the call site.
type UnhashableArgumentError struct {
	Op    string
	Index int
	Type  string
}

func (e *UnhashableArgumentError) Error() string {
	return fmt.Sprintf("cache key for %s: argument %d of type %s is not comparable", e.Op, e.Index, e.Type)
}

// NewKey builds a key from an operation name and comparable arguments.
func NewKey(op string, args ...any) (Key, error) {
	parts := make([]string, 0, len(args))
	for i, arg := range args {
		if arg != nil && !isComparable(reflect.ValueOf(arg)) {
			return Key{}, &UnhashableArgumentError{Op: op, Index: i, Type: fmt.Sprintf("%T", arg)}
		}
		parts = append(parts, fmt.Sprintf("%#v", arg))
	}
	return Key{Op: op, Args: strings.Join(parts, ", ")}, nil
}

// isComparable reports whether v can be used with ==, descending into
// interface, struct and array values whose static type alone does not tell.
func isComparable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	case reflect.Interface:
		return v.IsNil() || isComparable(v.Elem())
	case reflect.Struct:
		for i := range v.NumField() {
			if !isComparable(v.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := range v.Len() {
			if !isComparable(v.Index(i)) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

type entry struct {
	value  any
	expiry time.Time
}

// Stats is a snapshot of cache effectiveness.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Cache is a process-wide TTL store shared by any number of Memo proxies.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
	hits    uint64
	misses  uint64

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger used for hit/miss debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Key]entry),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Get returns the live value for key, if any.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	now := c.now()
	if !ok || !now.Before(e.expiry) {
		c.misses++
		return nil, false
	}
	c.hits++
	c.logger.Debug("cache hit", "key", key.String(), "ttl", e.expiry.Sub(now).Round(time.Second))
	return e.value, true
}

// Set stores value under key until now+ttl, replacing any previous entry.
func (c *Cache) Set(key Key, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiry: c.now().Add(ttl)}
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]entry)
	c.hits, c.misses = 0, 0
}

// Len returns the number of stored entries, live or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
