// Package ratelimit counts requests per client in fixed windows stored in
// Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "movieland:ratelimit:"

type Config struct {
	MaxRequests int           // requests allowed per window
	Window      time.Duration // window length, the counter expires with it
}

// Limiter is safe for concurrent use. A nil *Limiter allows everything.
type Limiter struct {
	redis  *redis.Client
	config Config
}

func New(client *redis.Client, config Config) *Limiter {
	return &Limiter{redis: client, config: config}
}

// NewClient parses a redis:// URL and checks the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// allowScript counts one hit and gives the counter an expiry whenever it has
// none, in one round trip. A counter can therefore never outlive its window.
var allowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return { count, ttl }
`)

/*
Allow counts one request for key and reports whether it fits in the window.

The first request of a window starts the expiry; when the limit is exceeded
the remaining TTL is returned as retry-after. On a Redis error the request is
allowed and the error returned so the caller can log it.
*/
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if l == nil {
		return true, 0, nil
	}

	window := l.config.Window.Milliseconds()
	if window < 1 {
		window = 1
	}

	result, err := allowScript.Run(ctx, l.redis, []string{keyPrefix + key}, window).Int64Slice()
	if err != nil {
		return true, 0, err
	}
	if len(result) != 2 {
		return true, 0, fmt.Errorf("unexpected rate limit script result: %v", result)
	}

	count, ttl := result[0], time.Duration(result[1])*time.Millisecond
	if count > int64(l.config.MaxRequests) {
		if ttl <= 0 {
			ttl = l.config.Window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
