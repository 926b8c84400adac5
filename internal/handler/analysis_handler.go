package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
)

// AnalysisHandler handles document analysis endpoints
type AnalysisHandler struct {
	service *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(service *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// AnalyzeExisting handles POST /documentprocessor/analyze-document/existing/:id.
// The document must already be attached to an opinion; the analysis is
// derived from the parent opinion's content.
func (h *AnalysisHandler) AnalyzeExisting(c *gin.Context) {
	analysis, err := h.service.AnalyzeExisting(c.Param("id"))
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Document not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Document analysis failed", err)
		return
	}
	common.SuccessResponse(c, analysis, nil)
}
