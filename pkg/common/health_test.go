package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckWithDepsAllHealthy(t *testing.T) {
	c, w := testContext()

	handler := HealthCheckWithDeps("restaurant-api", "1.0.0", map[string]func() error{
		"database": func() error { return nil },
		"redis":    func() error { return nil },
	})
	handler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "restaurant-api", resp.Service)
	assert.Equal(t, "healthy", resp.Checks["database"])
	assert.Equal(t, "healthy", resp.Checks["redis"])
}

func TestHealthCheckWithDepsFailingProbe(t *testing.T) {
	c, w := testContext()

	handler := HealthCheckWithDeps("restaurant-api", "1.0.0", map[string]func() error{
		"database": func() error { return nil },
		"redis":    func() error { return errors.New("connection refused") },
	})
	handler(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["database"])
	assert.Equal(t, "unhealthy: connection refused", resp.Checks["redis"])
}
