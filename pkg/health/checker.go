package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker probes a single dependency.
type Checker func() error

// CheckerConfig tunes dependency probes.
type CheckerConfig struct {
	Timeout time.Duration
}

// DefaultCheckerConfig returns the standard probe timeout.
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{Timeout: 2 * time.Second}
}

// DatabaseChecker returns a health check for the PostgreSQL pool.
func DatabaseChecker(pool *pgxpool.Pool) Checker {
	return DatabaseCheckerWithConfig(pool, DefaultCheckerConfig())
}

// DatabaseCheckerWithConfig returns a database check with a custom timeout.
func DatabaseCheckerWithConfig(pool *pgxpool.Pool, config CheckerConfig) Checker {
	return func() error {
		if pool == nil {
			return errors.New("database connection is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		return pool.Ping(ctx)
	}
}

// RedisChecker returns a health check for Redis.
func RedisChecker(client *redis.Client) Checker {
	return RedisCheckerWithConfig(client, DefaultCheckerConfig())
}

// RedisCheckerWithConfig returns a Redis check with a custom timeout.
func RedisCheckerWithConfig(client *redis.Client, config CheckerConfig) Checker {
	return func() error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		defer cancel()
		return client.Ping(ctx).Err()
	}
}

// HTTPEndpointChecker returns a health check that expects a 2xx response
// from url. Useful for external service dependencies.
func HTTPEndpointChecker(url string) Checker {
	return HTTPEndpointCheckerWithConfig(url, DefaultCheckerConfig())
}

// HTTPEndpointCheckerWithConfig returns an HTTP check with a custom timeout.
func HTTPEndpointCheckerWithConfig(url string, config CheckerConfig) Checker {
	client := &http.Client{Timeout: config.Timeout}
	return func() error {
		resp, err := client.Get(url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		return nil
	}
}
