package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	payload := []byte(`{"models":[]}`)
	c.Set(ctx, "all", payload, 0)
	payload[0] = 'x'

	got, ok := c.Get(ctx, "all")
	assert.True(t, ok)
	assert.Equal(t, `{"models":[]}`, string(got), "stored value is a copy")

	c.Delete(ctx, "all")
	_, ok = c.Get(ctx, "all")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	c.Set(ctx, "k", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewSelectsBackend(t *testing.T) {
	_, isMemory := New("").(*memory)
	assert.True(t, isMemory)

	_, isRedis := New("127.0.0.1:6379").(*redisCache)
	assert.True(t, isRedis)
}

func TestRedisCacheFallsBackWhenUnreachable(t *testing.T) {
	ctx := context.Background()
	c := NewRedis("127.0.0.1:1").(*redisCache)

	c.Set(ctx, "all", []byte("payload"), time.Minute)
	got, ok := c.Get(ctx, "all")
	assert.True(t, ok)
	assert.Equal(t, "payload", string(got))

	for i := 0; i < 3; i++ {
		c.Get(ctx, "other")
	}
	assert.Equal(t, gobreaker.StateOpen, c.breaker.State())

	c.Delete(ctx, "all")
	_, ok = c.Get(ctx, "all")
	assert.False(t, ok)
}
