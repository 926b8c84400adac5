package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/middleware"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
)

// PreferenceHandler handles per-user UI preference endpoints
type PreferenceHandler struct {
	service *service.PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(service *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// Get handles GET /users/me/preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, 401, "Authentication required", nil)
		return
	}

	prefs, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to load preferences", err)
		return
	}
	common.SuccessResponse(c, prefs, nil)
}

// Put handles PUT /users/me/preferences
func (h *PreferenceHandler) Put(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, 401, "Authentication required", nil)
		return
	}

	var prefs service.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.Set(c.Request.Context(), userID, &prefs); err != nil {
		common.ErrorResponse(c, 500, "Failed to save preferences", err)
		return
	}
	common.SuccessResponse(c, &prefs, nil)
}
