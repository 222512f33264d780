package cache_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/dinecli/internal/cache"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2023, 9, 1, 12, 0, 0, 0, time.UTC)}
}

type result struct{ n int }

func counting(calls *int) func(string) (*result, error) {
	return func(string) (*result, error) {
		*calls++
		return &result{n: *calls}, nil
	}
}

func byArg(s string) []any { return []any{s} }

func TestMemo_TTL(t *testing.T) {
	clock := newClock()
	c := cache.New(cache.WithClock(clock.Now))
	calls := 0
	memo := cache.Wrap(c, "overview", 30*time.Minute, byArg, counting(&calls))

	first, err := memo.Call("today")
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	second, err := memo.Call("today")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)

	clock.Advance(2 * time.Minute)
	third, err := memo.Call("today")
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, c.Len(), "stale entry is overwritten, not duplicated")
}

func TestMemo_ExpiresExactlyAtTTL(t *testing.T) {
	clock := newClock()
	c := cache.New(cache.WithClock(clock.Now))
	calls := 0
	memo := cache.Wrap(c, "op", time.Minute, byArg, counting(&calls))

	_, _ = memo.Call("x")
	clock.Advance(time.Minute)
	_, _ = memo.Call("x")

	assert.Equal(t, 2, calls)
}

func TestMemo_KeysByArguments(t *testing.T) {
	c := cache.New(cache.WithClock(newClock().Now))
	calls := 0
	memo := cache.Wrap(c, "op", time.Hour, byArg, counting(&calls))

	a, _ := memo.Call("a")
	b, _ := memo.Call("b")
	a2, _ := memo.Call("a")

	assert.NotSame(t, a, b)
	assert.Same(t, a, a2)
	assert.Equal(t, 2, calls)
}

func TestMemo_OperationsDoNotShareEntries(t *testing.T) {
	c := cache.New(cache.WithClock(newClock().Now))
	calls := 0
	one := cache.Wrap(c, "one", time.Hour, byArg, counting(&calls))
	two := cache.Wrap(c, "two", time.Hour, byArg, counting(&calls))

	_, _ = one.Call("x")
	_, _ = two.Call("x")

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, c.Len())
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	c := cache.New(cache.WithClock(newClock().Now))
	calls := 0
	memo := cache.Wrap(c, "op", time.Hour, byArg, func(string) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("boom")
		}
		return 7, nil
	})

	_, err := memo.Call("x")
	assert.Error(t, err)

	v, err := memo.Call("x")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestMemo_UnhashableArgument(t *testing.T) {
	c := cache.New()
	memo := cache.Wrap(c, "op", time.Hour,
		func(xs []string) []any { return []any{xs} },
		func([]string) (int, error) { return 1, nil },
	)

	_, err := memo.Call([]string{"a"})

	var hashErr *cache.UnhashableArgumentError
	require.ErrorAs(t, err, &hashErr)
	assert.Equal(t, "op", hashErr.Op)
	assert.Equal(t, 0, c.Len())
}

func TestNewKey(t *testing.T) {
	day := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	k1, err := cache.NewKey("history", "pancakes", day)
	require.NoError(t, err)
	k2, err := cache.NewKey("history", "pancakes", day)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := cache.NewKey("history", "pancakes", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = cache.NewKey("op", nil, 3, struct{ A string }{"x"})
	assert.NoError(t, err)

	_, err = cache.NewKey("op", map[string]int{})
	assert.Error(t, err)

	_, err = cache.NewKey("op", struct{ xs []int }{})
	assert.Error(t, err)
}

func TestCache_ClearAndStats(t *testing.T) {
	c := cache.New(cache.WithClock(newClock().Now))
	calls := 0
	memo := cache.Wrap(c, "op", time.Hour, byArg, counting(&calls))

	_, _ = memo.Call("x")
	_, _ = memo.Call("x")

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)

	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, _ = memo.Call("x")
	assert.Equal(t, 2, calls)
}

func TestMemo_ConcurrentCallsAreSafe(t *testing.T) {
	c := cache.New()
	var mu sync.Mutex
	calls := 0
	memo := cache.Wrap(c, "op", time.Hour, func(n int) []any { return []any{n % 4} }, func(n int) (int, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return n % 4, nil
	})

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := memo.Call(i)
			assert.NoError(t, err)
			assert.Equal(t, i%4, v)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, c.Len())
	assert.GreaterOrEqual(t, calls, 4)
}
