package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/config"
)

// slidingWindowScript counts hits in the trailing window and records the new
// one atomically. KEYS[1] = bucket key, ARGV[1] = now (unix micros),
// ARGV[2] = window micros, ARGV[3] = limit.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return {0, count}
end
redis.call('ZADD', key, now, now)
redis.call('PEXPIRE', key, math.ceil(window / 1000))
return {1, count + 1}
`

// Limiter is a Redis-backed sliding window rate limiter.
type Limiter struct {
	client redis.Scripter
	cfg    config.RateLimitConfig
	script *redis.Script
	now    func() time.Time
}

// Result reports the outcome of an Allow call.
type Result struct {
	Allowed  bool
	Count    int
	Limit    int
	Window   time.Duration
	Identity string
	Endpoint string
}

// NewLimiter creates a limiter using the given Redis client and config.
func NewLimiter(client redis.Scripter, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		cfg:    cfg,
		script: redis.NewScript(slidingWindowScript),
		now:    time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (l *Limiter) WithNow(now func() time.Time) {
	l.now = now
}

// Allow records a hit for identity on endpoint and reports whether it is
// within limit for the configured window.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, limit int) (Result, error) {
	result := Result{
		Allowed:  true,
		Limit:    limit,
		Window:   l.cfg.Window(),
		Identity: identity,
		Endpoint: endpoint,
	}

	if !l.cfg.Enabled || limit <= 0 {
		return result, nil
	}

	key := fmt.Sprintf("%s:%s:%s", l.cfg.RedisPrefix, endpoint, identity)
	nowMicros := l.now().UnixMicro()
	windowMicros := l.cfg.Window().Microseconds()

	values, err := l.script.Run(ctx, l.client, []string{key}, nowMicros, windowMicros, limit).Int64Slice()
	if err != nil {
		return result, err
	}
	if len(values) == 2 {
		result.Allowed = values[0] == 1
		result.Count = int(values[1])
	}

	return result, nil
}

// Middleware applies the limiter to a route, keyed on client identity
// (authenticated user ID when available, client IP otherwise). Redis
// failures fail open.
func (l *Limiter) Middleware(limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.GetString("user_id")
		if identity == "" {
			identity = c.ClientIP()
		}

		result, err := l.Allow(c.Request.Context(), c.FullPath(), identity, limit)
		if err != nil {
			c.Next()
			return
		}

		if !result.Allowed {
			common.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
