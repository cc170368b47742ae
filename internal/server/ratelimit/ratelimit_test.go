package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	t.Cleanup(l.Stop)
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("127.0.0.1", "/other", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/other", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, (12 * time.Second).Seconds(), info.RetryAfter.Seconds(), 0.01)
	assert.True(t, info.ResetTime.After(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute})

	l.Allow("c", "/x", "GET")
	l.Allow("c", "/x", "GET")
	allowed, _ := l.Allow("c", "/x", "GET")
	require.False(t, allowed)

	clock.Advance(31 * time.Second)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/assess", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/assess", "POST")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false})
	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("c", "/improve", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_ImproveIsStricter(t *testing.T) {
	l, _ := newTestLimiter(t, DefaultConfig())

	var improveAllowed, assessAllowed int
	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow("c", "/improve", "POST"); ok {
			improveAllowed++
		}
		if ok, _ := l.Allow("c", "/assess", "POST"); ok {
			assessAllowed++
		}
	}
	assert.Equal(t, 3, improveAllowed)
	assert.Equal(t, 10, assessAllowed)
}

func TestLimiter_UnlimitedProbes(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < 5; i++ {
			allowed, info := l.Allow("c", path, "GET")
			require.True(t, allowed, path)
			assert.Zero(t, info.Limit)
		}
	}
}

func TestLimiter_SeparateBuckets(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	ok, _ := l.Allow("a", "/x", "GET")
	assert.True(t, ok)
	ok, _ = l.Allow("b", "/x", "GET")
	assert.True(t, ok, "other client")
	ok, _ = l.Allow("a", "/y", "GET")
	assert.True(t, ok, "other path")
	ok, _ = l.Allow("a", "/x", "POST")
	assert.True(t, ok, "other method")
	ok, _ = l.Allow("a", "/x", "GET")
	assert.False(t, ok)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/x", "GET"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(50), allowed.Load())
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   time.Hour,
	})

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/x", "GET")
	}
	clock.Advance(2 * time.Hour)
	l.Allow("fresh", "/x", "GET")

	l.cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "fresh:/x:GET")
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/improve", Method: "POST", Limit: 1},
		{Path: "/articles/", Method: "PUT", Limit: 2},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantNil   bool
		wantLimit int
	}{
		{"exact", "/improve", "POST", false, 1},
		{"wrong method", "/improve", "GET", true, 0},
		{"prefix", "/articles/42", "PUT", false, 2},
		{"no match", "/render", "POST", true, 0},
		{"health", "/health", "GET", false, 0},
		{"metrics", "/metrics", "GET", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := LoadConfig()
		assert.True(t, cfg.Enabled)
		assert.Equal(t, 600, cfg.DefaultLimit)
		assert.NotEmpty(t, cfg.EndpointConfigs)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		assert.False(t, LoadConfig().Enabled)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "7")
		t.Setenv("RATE_LIMIT_WHITELIST", " 1.1.1.1, ,2.2.2.2")
		t.Setenv("RATE_LIMIT_IMPROVE_LIMIT", "5")
		cfg := LoadConfig()
		assert.Equal(t, 7, cfg.DefaultLimit)
		assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
		improve := MatchEndpoint("/improve", "POST", cfg.EndpointConfigs)
		require.NotNil(t, improve)
		assert.Equal(t, 5, improve.Limit)
	})
}
