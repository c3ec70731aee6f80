package menu

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goldendragon/restaurant/pkg/common"
	"github.com/goldendragon/restaurant/pkg/middleware"
)

// Handler handles HTTP requests for the menu
type Handler struct {
	service *Service
}

// NewHandler creates a new menu handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMenu returns the public menu, optionally filtered by category
// GET /api/v1/menu?category=noodles
func (h *Handler) GetMenu(c *gin.Context) {
	var category *Category
	if raw := c.Query("category"); raw != "" {
		cat := Category(raw)
		category = &cat
	}

	items, err := h.service.GetMenu(c.Request.Context(), category)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load menu")
		return
	}

	common.SuccessResponse(c, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetFullMenu returns every item including unavailable ones
// GET /api/v1/menu/all
func (h *Handler) GetFullMenu(c *gin.Context) {
	items, err := h.service.GetFullMenu(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load menu")
		return
	}

	common.SuccessResponse(c, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetItem returns a single menu item
// GET /api/v1/menu/:id
func (h *Handler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid item ID")
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusNotFound, "menu item not found")
		return
	}

	common.SuccessResponse(c, item)
}

// CreateItem adds a dish to the menu
// POST /api/v1/menu
func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to create menu item")
		return
	}

	common.CreatedResponse(c, item)
}

// UpdateItem edits a dish
// PATCH /api/v1/menu/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindErrorResponse(c, err)
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), itemID, &req)
	if err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to update menu item")
		return
	}

	common.SuccessResponse(c, item)
}

// DeleteItem removes a dish
// DELETE /api/v1/menu/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid item ID")
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), itemID); err != nil {
		if appErr, ok := err.(*common.AppError); ok {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to delete menu item")
		return
	}

	common.SuccessResponse(c, gin.H{
		"message": "Menu item deleted successfully",
	})
}

// RegisterRoutes registers menu routes. Reads are public; hosts can edit
// items (availability, pricing); only maintenance can add or remove dishes.
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	api := r.Group("/api/v1/menu")
	{
		api.GET("", h.GetMenu)
		api.GET("/:id", h.GetItem)
	}

	staff := api.Group("")
	staff.Use(middleware.AuthMiddleware(jwtSecret))
	{
		staff.GET("/all", middleware.RequireRole("restaurantHost", "maintenance"), h.GetFullMenu)
		staff.POST("", middleware.RequireRole("maintenance"), h.CreateItem)
		staff.PATCH("/:id", middleware.RequireRole("restaurantHost", "maintenance"), h.UpdateItem)
		staff.DELETE("/:id", middleware.RequireRole("maintenance"), h.DeleteItem)
	}
}
