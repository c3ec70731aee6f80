package orders

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/middleware"
	"github.com/goldendragon/restaurant/pkg/pagination"
)

// Handler handles HTTP requests for orders
type Handler struct {
	service *Service
}

// NewHandler creates a new order handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateOrder submits a new order for risk evaluation
// POST /api/v1/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	// Anonymous submissions are allowed; a logged-in identity only adds the
	// order-frequency signal.
	var userID *uuid.UUID
	if id, err := middleware.GetUserID(c); err == nil {
		userID = &id
	}

	response, err := h.service.CreateOrder(c.Request.Context(), &req, userID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create order")
		return
	}

	common.CreatedResponse(c, response)
}

// GetOrder gets a single order
// GET /api/v1/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	requesterID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), orderID, requesterID, middleware.GetUserRole(c))
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "order not found")
		return
	}

	common.SuccessResponse(c, order)
}

// ListOrders lists orders: customers see their own, staff see everything
// with an optional status filter
// GET /api/v1/orders
func (h *Handler) ListOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)

	var orders []*Order
	var total int64
	if isStaff(middleware.GetUserRole(c)) {
		var status *Status
		if raw := c.Query("status"); raw != "" {
			s := Status(raw)
			if !s.Valid() {
				common.ErrorResponse(c, http.StatusBadRequest, "unknown order status")
				return
			}
			status = &s
		}
		orders, total, err = h.service.ListAllOrders(c.Request.Context(), status, params.Limit, params.Offset)
	} else {
		orders, total, err = h.service.ListOrdersForUser(c.Request.Context(), userID, params.Limit, params.Offset)
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list orders")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, orders, meta)
}

// UpdateStatus moves an order to a new lifecycle state
// PATCH /api/v1/orders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update order status")
		return
	}

	common.SuccessResponse(c, order)
}

// RegisterRoutes registers order routes. createMiddleware is applied to the
// public submission endpoint only (rate limiting, request timeout).
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string, createMiddleware ...gin.HandlerFunc) {
	api := r.Group("/api/v1/orders")

	create := append([]gin.HandlerFunc{middleware.OptionalAuth(jwtSecret)}, createMiddleware...)
	api.POST("", append(create, h.CreateOrder)...)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.GET("", h.ListOrders)
		authed.GET("/:id", h.GetOrder)
		authed.PATCH("/:id/status", middleware.RequireRole("restaurantHost", "maintenance"), h.UpdateStatus)
	}
}
