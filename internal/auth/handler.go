package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/middleware"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register creates an account
// POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	response, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to register")
		return
	}

	common.CreatedResponse(c, response)
}

// Login authenticates an account
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	response, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	common.SuccessResponse(c, response)
}

// Me returns the authenticated account
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "user not found")
		return
	}

	common.SuccessResponse(c, user)
}

// RegisterRoutes registers auth routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	api := r.Group("/api/v1/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/me", middleware.AuthMiddleware(jwtSecret), h.Me)
	}
}
