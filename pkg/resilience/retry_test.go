package resilience

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errProviderDown = errors.New("provider unavailable")
	errBadNumber    = errors.New("invalid destination number")
)

// fastConfig keeps backoff delays out of the test runtime.
func fastConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond
	return cfg
}

func flakyOperation(failures int, result interface{}) (Operation, *int) {
	attempts := new(int)
	return func(ctx context.Context) (interface{}, error) {
		*attempts++
		if *attempts <= failures {
			return nil, errProviderDown
		}
		return result, nil
	}, attempts
}

func TestRetryFirstAttemptSucceeds(t *testing.T) {
	op, attempts := flakyOperation(0, "sent")

	result, err := Retry(context.Background(), fastConfig(), op)

	require.NoError(t, err)
	assert.Equal(t, "sent", result)
	assert.Equal(t, 1, *attempts)
}

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	op, attempts := flakyOperation(2, "sent")

	result, err := Retry(context.Background(), fastConfig(), op)

	require.NoError(t, err)
	assert.Equal(t, "sent", result)
	assert.Equal(t, 3, *attempts)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 3
	op, attempts := flakyOperation(10, nil)

	result, err := Retry(context.Background(), cfg, op)

	assert.ErrorIs(t, err, errProviderDown)
	assert.Nil(t, result)
	assert.Equal(t, 3, *attempts)
}

func TestRetryZeroMaxAttemptsStillRunsOnce(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 0
	op, attempts := flakyOperation(0, "sent")

	result, err := Retry(context.Background(), cfg, op)

	require.NoError(t, err)
	assert.Equal(t, "sent", result)
	assert.Equal(t, 1, *attempts)
}

func TestRetryStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.InitialBackoff = 50 * time.Millisecond

	attempts := 0
	op := func(ctx context.Context) (interface{}, error) {
		attempts++
		cancel()
		return nil, errProviderDown
	}

	_, err := Retry(ctx, cfg, op)

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryStopsWhenDeadlineExpires(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	cfg := fastConfig()
	cfg.InitialBackoff = 100 * time.Millisecond
	cfg.MaxAttempts = 5
	op, attempts := flakyOperation(10, nil)

	_, err := Retry(ctx, cfg, op)

	assert.Error(t, err)
	assert.Less(t, *attempts, 5)
}

func TestRetryHonorsRetryableErrorList(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryableErrors = []error{errProviderDown}

	attempts := 0
	op := func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, errBadNumber
	}

	_, err := Retry(context.Background(), cfg, op)

	assert.ErrorIs(t, err, errBadNumber)
	assert.Equal(t, 1, attempts, "errors outside the list are permanent")
}

func TestRetryHonorsCustomChecker(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 3
	cfg.RetryableChecker = func(err error) bool {
		return errors.Is(err, errProviderDown)
	}
	op, attempts := flakyOperation(10, nil)

	_, err := Retry(context.Background(), cfg, op)

	assert.ErrorIs(t, err, errProviderDown)
	assert.Equal(t, 3, *attempts)
}

func TestRetryNeverRetriesOpenBreaker(t *testing.T) {
	attempts := 0
	op := func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, ErrCircuitOpen
	}

	_, err := Retry(context.Background(), fastConfig(), op)

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 1, attempts)
}

func TestRetryNeverRetriesCanceledContextError(t *testing.T) {
	attempts := 0
	op := func(ctx context.Context) (interface{}, error) {
		attempts++
		return nil, context.Canceled
	}

	_, err := Retry(context.Background(), fastConfig(), op)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithBreakerRecovers(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxAttempts = 3
	breaker := NewCircuitBreaker(Settings{
		Name:             "sms-test",
		Interval:         100 * time.Millisecond,
		Timeout:          time.Second,
		FailureThreshold: 5,
	}, NoopFallback)
	op, attempts := flakyOperation(1, "sent")

	result, err := RetryWithBreaker(context.Background(), cfg, breaker, op)

	require.NoError(t, err)
	assert.Equal(t, "sent", result)
	assert.Equal(t, 2, *attempts)
}

func TestCalculateBackoffGrowth(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},  // capped
		{10, 30 * time.Second}, // capped
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, calculateBackoff(tt.attempt, cfg))
		})
	}
}

func TestCalculateBackoffJitterStaysBounded(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		EnableJitter:      true,
	}

	seen := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		backoff := calculateBackoff(3, cfg)
		seen[backoff] = true
		assert.GreaterOrEqual(t, backoff, time.Duration(0))
		assert.LessOrEqual(t, backoff, 4*time.Second)
	}
	assert.Greater(t, len(seen), 1)
}

func TestAddJitterZeroDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), addJitter(0))
}

func TestRetryConfigPresets(t *testing.T) {
	def := DefaultRetryConfig()
	assert.Equal(t, 3, def.MaxAttempts)
	assert.Equal(t, time.Second, def.InitialBackoff)
	assert.True(t, def.EnableJitter)

	aggressive := AggressiveRetryConfig()
	assert.Equal(t, 5, aggressive.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, aggressive.InitialBackoff)

	conservative := ConservativeRetryConfig()
	assert.Equal(t, 2, conservative.MaxAttempts)
	assert.Equal(t, 2*time.Second, conservative.InitialBackoff)
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{408, true},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryableHTTPStatus(tt.status))
		})
	}
}

func TestShouldRetryNilError(t *testing.T) {
	assert.False(t, shouldRetry(nil, DefaultRetryConfig()))
}
