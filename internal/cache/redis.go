package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const redisTimeout = 500 * time.Millisecond

// redisCache talks to redis through a circuit breaker and falls back to a
// local memory cache whenever redis fails or the breaker is open
type redisCache struct {
	r        *redis.Client
	breaker  *gobreaker.CircuitBreaker
	fallback Cache
}

// NewRedis returns a redis-backed cache for addr
func NewRedis(addr string) Cache {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: redisTimeout,
		MaxRetries:  -1,
	})
	return newRedisCache(client)
}

func newRedisCache(client *redis.Client) *redisCache {
	st := gobreaker.Settings{Name: "redis-cache"}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Cache circuit breaker state change")
	}

	return &redisCache{
		r:        client,
		breaker:  gobreaker.NewCircuitBreaker(st),
		fallback: NewMemory(),
	}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	v, err := c.breaker.Execute(func() (interface{}, error) {
		b, err := c.r.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Redis get failed, using local cache")
		return c.fallback.Get(ctx, key)
	}
	if v == nil {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return b, true
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.r.Set(ctx, key, val, ttl).Err()
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Redis set failed, using local cache")
		c.fallback.Set(ctx, key, val, ttl)
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	c.fallback.Delete(ctx, keys...)
	if len(keys) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.r.Del(ctx, keys...).Err()
	})
	if err != nil {
		log.Debug().Err(err).Strs("keys", keys).Msg("Redis delete failed")
	}
}
