package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldendragon/restaurant/pkg/config"
)

func limiterConfig() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		OrderLimit:    10,
		RedisPrefix:   "rl",
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 14, 14, 0, 0, 0, time.UTC)
}

func scriptHash() string {
	return redis.NewScript(slidingWindowScript).Hash()
}

func TestAllowUnderLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := limiterConfig()
	limiter := NewLimiter(client, cfg)
	limiter.WithNow(fixedNow)

	nowMicros := fixedNow().UnixMicro()
	windowMicros := cfg.Window().Microseconds()
	mock.ExpectEvalSha(scriptHash(), []string{"rl:/api/v1/orders:1.2.3.4"}, nowMicros, windowMicros, 10).
		SetVal([]interface{}{int64(1), int64(3)})

	result, err := limiter.Allow(context.Background(), "/api/v1/orders", "1.2.3.4", 10)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 3, result.Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowOverLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := limiterConfig()
	limiter := NewLimiter(client, cfg)
	limiter.WithNow(fixedNow)

	nowMicros := fixedNow().UnixMicro()
	windowMicros := cfg.Window().Microseconds()
	mock.ExpectEvalSha(scriptHash(), []string{"rl:/api/v1/orders:1.2.3.4"}, nowMicros, windowMicros, 10).
		SetVal([]interface{}{int64(0), int64(10)})

	result, err := limiter.Allow(context.Background(), "/api/v1/orders", "1.2.3.4", 10)

	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 10, result.Count)
}

func TestAllowSkipsRedisWhenDisabled(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := limiterConfig()
	cfg.Enabled = false
	limiter := NewLimiter(client, cfg)

	result, err := limiter.Allow(context.Background(), "/api/v1/orders", "1.2.3.4", 10)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowSkipsRedisWhenLimitZero(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := NewLimiter(client, limiterConfig())

	result, err := limiter.Allow(context.Background(), "/api/v1/orders", "1.2.3.4", 0)

	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowSurfacesRedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cfg := limiterConfig()
	limiter := NewLimiter(client, cfg)
	limiter.WithNow(fixedNow)

	nowMicros := fixedNow().UnixMicro()
	windowMicros := cfg.Window().Microseconds()
	mock.ExpectEvalSha(scriptHash(), []string{"rl:/api/v1/orders:1.2.3.4"}, nowMicros, windowMicros, 10).
		SetErr(errors.New("connection refused"))

	result, err := limiter.Allow(context.Background(), "/api/v1/orders", "1.2.3.4", 10)

	assert.Error(t, err)
	// Callers fail open on limiter errors; the default result stays allowed.
	assert.True(t, result.Allowed)
}
