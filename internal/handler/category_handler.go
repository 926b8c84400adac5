package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
)

// CategoryHandler handles the category taxonomy endpoints
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Structured handles GET /opinions/categories/structured. The response
// maps each category to its subcategory names, an empty list meaning
// the category has no subdivision.
func (h *CategoryHandler) Structured(c *gin.Context) {
	categories, err := h.service.Structured(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to load categories", err)
		return
	}
	common.SuccessResponse(c, categories, nil)
}
