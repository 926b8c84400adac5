package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/service"
)

// AuthHandler handles authentication and employee directory requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// IssueToken handles POST /auth/token. The credentials arrive
// form-encoded, OAuth2 password-grant style.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		common.ErrorResponse(c, 400, "username and password are required", nil)
		return
	}

	response, err := h.service.IssueToken(username, password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid credentials", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Token issuance failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": response.AccessToken,
		"token_type":   "bearer",
		"user":         response.User,
	})
}

// ListEmployees handles GET /auth/users
func (h *AuthHandler) ListEmployees(c *gin.Context) {
	employees, err := h.service.ListEmployees()
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to list employees", err)
		return
	}
	common.SuccessResponse(c, employees, &common.Meta{Total: int64(len(employees))})
}

// CreateEmployee handles POST /auth/users
func (h *AuthHandler) CreateEmployee(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	employee, err := h.service.CreateEmployee(&req)
	if errors.Is(err, common.ErrEmployeeAlreadyExists) {
		common.ErrorResponse(c, 409, "Employee already exists", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid employee data", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to create employee", err)
		return
	}

	c.JSON(http.StatusCreated, common.APIResponse{Data: employee})
}
