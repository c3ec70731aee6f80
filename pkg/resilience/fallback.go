package resilience

import (
	"context"

	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/logger"
)

// FallbackFunc runs when the breaker refuses an operation.
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// NoopFallback surfaces ErrCircuitOpen unchanged.
func NoopFallback(ctx context.Context, err error) (interface{}, error) {
	return nil, ErrCircuitOpen
}

// GracefulDegradation surfaces ErrCircuitOpen after logging which channel
// is degraded. The caller keeps its own fallback behavior.
func GracefulDegradation(channel string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.Warn("circuit breaker open, channel degraded",
			zap.String("channel", channel),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}
