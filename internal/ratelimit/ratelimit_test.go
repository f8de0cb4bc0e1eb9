package ratelimit

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable points at a port nothing listens on so every command fails fast.
func unreachable(t *testing.T) *RedisLimiter {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	rl := newRedisLimiter(client)
	t.Cleanup(func() { rl.Close() })
	return rl
}

func TestAllowWithoutLimit(t *testing.T) {
	rl := unreachable(t)
	d := rl.Allow(context.Background(), "client", 0, time.Minute)
	assert.True(t, d.Allowed)
	assert.Zero(t, d.Count)
}

func TestAllowFailsOpen(t *testing.T) {
	rl := unreachable(t)
	d := rl.Allow(context.Background(), "client", 1, time.Minute)
	assert.True(t, d.Allowed)
}

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedis(ctx, "127.0.0.1:1", "", 0)
	require.Error(t, err)
}

func TestKeyPrefix(t *testing.T) {
	rl := unreachable(t)
	assert.Equal(t, "release-tracker:ratelimit:", rl.prefix)
	assert.Equal(t, 250*time.Millisecond, rl.timeout)
}
