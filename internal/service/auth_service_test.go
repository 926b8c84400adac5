package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/pkg/jwt"
)

// --- Mock EmployeeRepository ---

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) List() ([]domain.Employee, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) FindByID(id string) (*domain.Employee, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) FindByUsername(username string) (*domain.Employee, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) ExistsByUsername(username string) (bool, error) {
	args := m.Called(username)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmployeeRepo) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *mockEmployeeRepo) Create(employee *domain.Employee) error {
	return m.Called(employee).Error(0)
}

func (m *mockEmployeeRepo) Search(query string, limit int) ([]domain.Employee, int64, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Employee), args.Get(1).(int64), args.Error(2)
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 0)
}

func TestIssueTokenSuccess(t *testing.T) {
	repo := new(mockEmployeeRepo)
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	assert.NoError(t, err)

	repo.On("FindByUsername", "jdoe").Return(&domain.Employee{
		ID:         "emp-1",
		Username:   "jdoe",
		Password:   string(hashed),
		Name:       "J. Doe",
		Department: "infrastructure",
		Role:       "staff",
	}, nil)

	svc := NewAuthService(repo, newTestJWTManager())
	response, err := svc.IssueToken("jdoe", "correct-password")

	assert.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.Equal(t, "jdoe", response.User.Username)

	claims, err := newTestJWTManager().VerifyToken(response.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "emp-1", claims.UserID)
	assert.Equal(t, "infrastructure", claims.Department)

	repo.AssertExpectations(t)
}

func TestIssueTokenWrongPassword(t *testing.T) {
	repo := new(mockEmployeeRepo)
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	repo.On("FindByUsername", "jdoe").Return(&domain.Employee{
		ID:       "emp-1",
		Username: "jdoe",
		Password: string(hashed),
	}, nil)

	svc := NewAuthService(repo, newTestJWTManager())
	response, err := svc.IssueToken("jdoe", "wrong-password")

	assert.Nil(t, response)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestIssueTokenUnknownUser(t *testing.T) {
	repo := new(mockEmployeeRepo)
	repo.On("FindByUsername", "ghost").Return(nil, nil)

	svc := NewAuthService(repo, newTestJWTManager())
	response, err := svc.IssueToken("ghost", "whatever")

	assert.Nil(t, response)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestIssueTokenRepoError(t *testing.T) {
	repo := new(mockEmployeeRepo)
	repo.On("FindByUsername", "jdoe").Return(nil, errors.New("db down"))

	svc := NewAuthService(repo, newTestJWTManager())
	_, err := svc.IssueToken("jdoe", "pw")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestCreateEmployee(t *testing.T) {
	repo := new(mockEmployeeRepo)
	repo.On("ExistsByUsername", "newbie").Return(false, nil)
	repo.On("ExistsByEmail", "newbie@example.gov").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*domain.Employee")).Return(nil)

	svc := NewAuthService(repo, newTestJWTManager())
	employee, err := svc.CreateEmployee(&CreateEmployeeRequest{
		Username: "newbie",
		Password: "secret",
		Name:     "New B.",
		Email:    "newbie@example.gov",
	})

	assert.NoError(t, err)
	assert.Equal(t, "newbie", employee.Username)
	assert.Equal(t, "staff", employee.Role) // default role
	assert.NotEmpty(t, employee.ID)

	// the stored password is a bcrypt hash, never the plaintext
	created := repo.Calls[2].Arguments.Get(0).(*domain.Employee)
	assert.NotEqual(t, "secret", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret")))
}

func TestCreateEmployeeDuplicateUsername(t *testing.T) {
	repo := new(mockEmployeeRepo)
	repo.On("ExistsByUsername", "taken").Return(true, nil)

	svc := NewAuthService(repo, newTestJWTManager())
	employee, err := svc.CreateEmployee(&CreateEmployeeRequest{
		Username: "taken",
		Password: "secret",
		Name:     "Dup",
		Email:    "dup@example.gov",
	})

	assert.Nil(t, employee)
	assert.ErrorIs(t, err, common.ErrEmployeeAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateEmployeeBlankFields(t *testing.T) {
	repo := new(mockEmployeeRepo)
	svc := NewAuthService(repo, newTestJWTManager())

	employee, err := svc.CreateEmployee(&CreateEmployeeRequest{
		Username: "   ",
		Password: "secret",
		Name:     "Blank",
		Email:    "blank@example.gov",
	})

	assert.Nil(t, employee)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	repo.AssertNotCalled(t, "ExistsByUsername", mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestListEmployees(t *testing.T) {
	repo := new(mockEmployeeRepo)
	repo.On("List").Return([]domain.Employee{
		{ID: "emp-1", Username: "a", Name: "A", Password: "hash-a"},
		{ID: "emp-2", Username: "b", Name: "B", Password: "hash-b"},
	}, nil)

	svc := NewAuthService(repo, newTestJWTManager())
	employees, err := svc.ListEmployees()

	assert.NoError(t, err)
	assert.Len(t, employees, 2)
	assert.Equal(t, "emp-1", employees[0].ID)
}
