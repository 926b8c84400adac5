package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
)

// OpinionHandler handles opinion request endpoints
type OpinionHandler struct {
	service *service.OpinionService
}

// NewOpinionHandler creates a new OpinionHandler
func NewOpinionHandler(service *service.OpinionService) *OpinionHandler {
	return &OpinionHandler{service: service}
}

// List handles GET /opinions/requests
func (h *OpinionHandler) List(c *gin.Context) {
	var filters domain.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		common.ErrorResponse(c, 400, "Invalid filters", err)
		return
	}

	opinions, err := h.service.List(filters)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to list opinions", err)
		return
	}
	common.SuccessResponse(c, opinions, &common.Meta{Total: int64(len(opinions))})
}

// Get handles GET /opinions/requests/:id
func (h *OpinionHandler) Get(c *gin.Context) {
	opinion, err := h.service.Get(c.Param("id"))
	if errors.Is(err, common.ErrOpinionNotFound) {
		common.ErrorResponse(c, 404, "Opinion not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to get opinion", err)
		return
	}
	common.SuccessResponse(c, opinion, nil)
}

// Board handles GET /opinions/board. The query and filters are applied
// before the opinions are partitioned into workflow columns.
func (h *OpinionHandler) Board(c *gin.Context) {
	var filters domain.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		common.ErrorResponse(c, 400, "Invalid filters", err)
		return
	}

	columns, err := h.service.Board(c.Request.Context(), c.Query("q"), filters)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to build board", err)
		return
	}
	common.SuccessResponse(c, columns, nil)
}

// Create handles POST /opinions/requests/. The submission arrives as
// multipart form data: a request_data JSON field plus up to three
// supporting documents under file1..file3.
func (h *OpinionHandler) Create(c *gin.Context) {
	raw := c.PostForm("request_data")
	if raw == "" {
		common.ErrorResponse(c, 400, "request_data field is required", nil)
		return
	}

	var form domain.OpinionFormData
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		common.ErrorResponse(c, 400, "Invalid request_data JSON", err)
		return
	}

	uploads, closers, err := collectUploads(c)
	defer closeAll(closers)
	if err != nil {
		common.ErrorResponse(c, 400, "Failed to read uploaded files", err)
		return
	}

	opinion, err := h.service.Create(c.Request.Context(), &form, uploads)
	if err != nil {
		h.writeOpinionError(c, err, "Failed to create opinion")
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: opinion})
}

// AttachDocuments handles POST /opinions/:id/documents. Files arrive
// under the same file1..file3 fields as on create.
func (h *OpinionHandler) AttachDocuments(c *gin.Context) {
	uploads, closers, err := collectUploads(c)
	defer closeAll(closers)
	if err != nil {
		common.ErrorResponse(c, 400, "Failed to read uploaded files", err)
		return
	}
	if len(uploads) == 0 {
		common.ErrorResponse(c, 400, "No documents provided", nil)
		return
	}

	opinion, err := h.service.AttachDocuments(c.Request.Context(), c.Param("id"), uploads)
	if err != nil {
		h.writeOpinionError(c, err, "Failed to attach documents")
		return
	}
	common.SuccessResponse(c, opinion, nil)
}

// MoveRequest is the body of POST /opinions/:id/move. over_id is the
// drop target: a workflow status name or another opinion's id. An
// empty over_id discards the drag.
type MoveRequest struct {
	OverID string `json:"over_id"`
}

// Move handles POST /opinions/:id/move
func (h *OpinionHandler) Move(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, err := h.service.Move(c.Request.Context(), c.Param("id"), req.OverID)
	if errors.Is(err, common.ErrOpinionNotFound) {
		common.ErrorResponse(c, 404, "Opinion not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to move opinion", err)
		return
	}
	common.SuccessResponse(c, result, nil)
}

// Update handles PUT /opinions/:id
func (h *OpinionHandler) Update(c *gin.Context) {
	var form domain.OpinionFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	opinion, err := h.service.Update(c.Request.Context(), c.Param("id"), &form)
	if err != nil {
		h.writeOpinionError(c, err, "Failed to update opinion")
		return
	}
	common.SuccessResponse(c, opinion, nil)
}

// Delete handles DELETE /opinions/:id
func (h *OpinionHandler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, common.ErrOpinionNotFound) {
		common.ErrorResponse(c, 404, "Opinion not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete opinion", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AppendRemark handles POST /opinions/:id/remarks
func (h *OpinionHandler) AppendRemark(c *gin.Context) {
	var form domain.RemarkFormData
	if err := c.ShouldBindJSON(&form); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	remark, err := h.service.AppendRemark(c.Request.Context(), c.Param("id"), &form)
	if err != nil {
		h.writeOpinionError(c, err, "Failed to append remark")
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: remark})
}

// AssignRequest is the body of PUT /opinions/:id/assignee
type AssignRequest struct {
	Assignee string `json:"assignee"`
}

// Assign handles PUT /opinions/:id/assignee
func (h *OpinionHandler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	opinion, err := h.service.Assign(c.Request.Context(), c.Param("id"), req.Assignee)
	if errors.Is(err, common.ErrOpinionNotFound) {
		common.ErrorResponse(c, 404, "Opinion not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to update assignee", err)
		return
	}
	common.SuccessResponse(c, opinion, nil)
}

func (h *OpinionHandler) writeOpinionError(c *gin.Context, err error, fallback string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": &common.ErrorInfo{
				Code:    "VALIDATION_FAILED",
				Message: "Required fields are missing",
			},
			"missing_fields": validationErr.Fields,
		})
	case errors.Is(err, common.ErrOpinionNotFound):
		common.ErrorResponse(c, 404, "Opinion not found", err)
	case errors.Is(err, common.ErrTooManyDocuments):
		common.ErrorResponse(c, 400, "At most three documents may be attached", err)
	default:
		common.ErrorResponse(c, 500, fallback, err)
	}
}

func closeAll(files []multipart.File) {
	for _, file := range files {
		file.Close() //nolint:errcheck
	}
}

// collectUploads opens the file1..file3 parts of the submission form.
// Absent parts are skipped; callers close the returned files.
func collectUploads(c *gin.Context) ([]service.DocumentUpload, []multipart.File, error) {
	var uploads []service.DocumentUpload
	var closers []multipart.File

	for _, field := range []string{"file1", "file2", "file3"} {
		header, err := c.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			return nil, closers, err
		}
		file, err := header.Open()
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, file)
		uploads = append(uploads, service.DocumentUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
	}
	return uploads, closers, nil
}
