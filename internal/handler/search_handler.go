package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
)

// SearchHandler handles search and search-analysis endpoints
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(service *service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles POST /search/
func (h *SearchHandler) Search(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		common.ErrorResponse(c, 400, "query is required", nil)
		return
	}

	response, err := h.service.Search(c.Request.Context(), &req)
	if err != nil {
		common.ErrorResponse(c, 500, "Search failed", err)
		return
	}
	common.SuccessResponse(c, response, nil)
}

// Analyze handles POST /searchanalysis/search: the same query surface
// as /search/, answered with a summary, key points and trends instead
// of raw result bundles.
func (h *SearchHandler) Analyze(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		common.ErrorResponse(c, 400, "query is required", nil)
		return
	}

	analysis, err := h.service.Analyze(c.Request.Context(), req.Query)
	if err != nil {
		common.ErrorResponse(c, 500, "Search analysis failed", err)
		return
	}
	common.SuccessResponse(c, analysis, nil)
}
