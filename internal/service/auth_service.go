package service

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	"github.com/opiniondesk/opiniondesk-backend/pkg/jwt"
)

// TokenResponse is returned by the token endpoint
type TokenResponse struct {
	AccessToken string                   `json:"access_token"`
	User        *domain.EmployeeResponse `json:"user"`
}

// CreateEmployeeRequest is the payload for registering an employee
type CreateEmployeeRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// AuthService handles authentication and employee accounts
type AuthService interface {
	IssueToken(username, password string) (*TokenResponse, error)
	ListEmployees() ([]domain.EmployeeResponse, error)
	CreateEmployee(req *CreateEmployeeRequest) (*domain.EmployeeResponse, error)
}

type authService struct {
	employeeRepo repository.EmployeeRepository
	jwtManager   *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(employeeRepo repository.EmployeeRepository, jwtManager *jwt.Manager) AuthService {
	return &authService{
		employeeRepo: employeeRepo,
		jwtManager:   jwtManager,
	}
}

// IssueToken verifies credentials and returns a bearer token
func (s *authService) IssueToken(username, password string) (*TokenResponse, error) {
	employee, err := s.employeeRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, common.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(employee.ID, employee.Name, employee.Department, employee.Role)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		User:        employee.ToResponse(),
	}, nil
}

// ListEmployees returns all employees as view-models
func (s *authService) ListEmployees() ([]domain.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]domain.EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, *employees[i].ToResponse())
	}
	return out, nil
}

// CreateEmployee registers a new staff account
func (s *authService) CreateEmployee(req *CreateEmployeeRequest) (*domain.EmployeeResponse, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" ||
		strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, common.ErrInvalidInput
	}

	exists, err := s.employeeRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrEmployeeAlreadyExists
	}

	exists, err = s.employeeRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrEmployeeAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		ID:         uuid.New().String(),
		Username:   req.Username,
		Password:   string(hashed),
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Role:       req.Role,
	}
	if employee.Role == "" {
		employee.Role = "staff"
	}

	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, err
	}

	return employee.ToResponse(), nil
}
