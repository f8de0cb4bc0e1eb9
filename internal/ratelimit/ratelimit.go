package ratelimit

import (
	"context"
	"time"

	"release-tracker/internal/logger"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Count     int
	WindowEnd time.Time
}

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) Decision
	Close() error
}

// RedisLimiter is a fixed-window Limiter backed by INCR/EXPIRE. Redis errors
// fail open.
type RedisLimiter struct {
	client  *redis.Client
	logger  *logrus.Entry
	prefix  string
	timeout time.Duration
}

// NewRedis connects to redis and verifies the connection.
func NewRedis(ctx context.Context, addr, password string, db int) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return newRedisLimiter(client), nil
}

func newRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		logger:  logger.WithModule("ratelimit"),
		prefix:  "release-tracker:ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	if limit <= 0 {
		return Decision{Allowed: true}
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.logRedisError("incr", err)
		return Decision{Allowed: true}
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, window).Err(); err != nil {
			rl.logRedisError("expire", err)
		}
	}
	ttl, err := rl.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return Decision{
		Allowed:   int(counter) <= limit,
		Count:     int(counter),
		WindowEnd: time.Now().Add(ttl),
	}
}

func (rl *RedisLimiter) Close() error {
	return rl.client.Close()
}

func (rl *RedisLimiter) logRedisError(op string, err error) {
	rl.logger.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Error("Redis rate limiter error")
}
