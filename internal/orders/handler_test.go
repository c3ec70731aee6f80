package orders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goldendragon/restaurant/internal/risk"
)

func newTestRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(service).RegisterRoutes(r, "test-secret")
	return r
}

func postOrder(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// A zero total is a risk signal, not malformed input: it must pass binding
// and come back as a rejected order with the below-minimum issue.
func TestCreateOrderZeroTotalReachesTheEvaluator(t *testing.T) {
	repo := new(mockOrderRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*orders.Order")).Return(nil)
	router := newTestRouter(newTestService(repo, nil, nil))

	w := postOrder(t, router, `{
		"customer_name": "Jane Doe",
		"email": "jane@example.com",
		"phone": "212-555-0198",
		"delivery_address": "456 Elm Street, 10003",
		"items": [{"name": "Kung Pao Chicken", "price": 15.95, "quantity": 2}],
		"total": 0
	}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Order      *Order          `json:"order"`
			Assessment risk.Assessment `json:"assessment"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, StatusRejected, body.Data.Order.Status)
	assert.Contains(t, body.Data.Assessment.Issues, "Order amount ($0) below minimum ($15)")

	repo.AssertExpectations(t)
}

func TestCreateOrderNegativeTotalFailsBinding(t *testing.T) {
	repo := new(mockOrderRepository)
	router := newTestRouter(newTestService(repo, nil, nil))

	w := postOrder(t, router, `{
		"customer_name": "Jane Doe",
		"email": "jane@example.com",
		"phone": "212-555-0198",
		"delivery_address": "456 Elm Street, 10003",
		"total": -5
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
