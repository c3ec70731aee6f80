package reservations

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/middleware"
	"github.com/goldendragon/restaurant/pkg/pagination"
)

// Handler handles HTTP requests for reservations
type Handler struct {
	service *Service
}

// NewHandler creates a new reservation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateReservation books a table
// POST /api/v1/reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	reservation, err := h.service.CreateReservation(c.Request.Context(), userID, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create reservation")
		return
	}

	common.CreatedResponse(c, reservation)
}

// ListReservations lists the authenticated user's reservations
// GET /api/v1/reservations
func (h *Handler) ListReservations(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	params := pagination.ParseParams(c)

	reservations, total, err := h.service.ListReservationsForUser(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	meta := pagination.BuildMeta(params.Limit, params.Offset, total)
	common.SuccessResponseWithMeta(c, reservations, meta)
}

// ListReservationsByDate lists all reservations for a day, host only
// GET /api/v1/reservations/schedule?date=2006-01-02
func (h *Handler) ListReservationsByDate(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	reservations, err := h.service.ListReservationsForDate(c.Request.Context(), date)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list reservations")
		return
	}

	common.SuccessResponse(c, gin.H{
		"date":         date,
		"reservations": reservations,
		"count":        len(reservations),
	})
}

// UpdateStatus moves a reservation to a new state
// PATCH /api/v1/reservations/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	requesterID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid reservation ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	isHost := middleware.GetUserRole(c) == "restaurantHost"
	reservation, err := h.service.UpdateStatus(c.Request.Context(), reservationID, requesterID, isHost, req.Status)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update reservation status")
		return
	}

	common.SuccessResponse(c, reservation)
}

// RegisterRoutes registers reservation routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	api := r.Group("/api/v1/reservations")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	{
		api.POST("", h.CreateReservation)
		api.GET("", h.ListReservations)
		api.GET("/schedule", middleware.RequireRole("restaurantHost"), h.ListReservationsByDate)
		api.PATCH("/:id/status", h.UpdateStatus)
	}
}
