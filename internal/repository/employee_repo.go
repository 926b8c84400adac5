package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// EmployeeRepository handles employee persistence
type EmployeeRepository interface {
	List() ([]domain.Employee, error)
	FindByID(id string) (*domain.Employee, error)
	FindByUsername(username string) (*domain.Employee, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Create(employee *domain.Employee) error
	Search(query string, limit int) ([]domain.Employee, int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// List retrieves all employees ordered by name
func (r *employeeRepository) List() ([]domain.Employee, error) {
	var employees []domain.Employee
	if err := r.db.Order("name ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// FindByID retrieves an employee by id, (nil, nil) when missing
func (r *employeeRepository) FindByID(id string) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.First(&employee, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

// FindByUsername retrieves an employee by login name, (nil, nil) when missing
func (r *employeeRepository) FindByUsername(username string) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.First(&employee, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

// ExistsByUsername checks login-name uniqueness
func (r *employeeRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Employee{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks email uniqueness
func (r *employeeRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Employee{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Create inserts a new employee
func (r *employeeRepository) Create(employee *domain.Employee) error {
	return r.db.Create(employee).Error
}

// Search runs a LIKE query over names, usernames and departments
func (r *employeeRepository) Search(query string, limit int) ([]domain.Employee, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"

	var total int64
	base := r.db.Model(&domain.Employee{}).
		Where("name LIKE ? OR username LIKE ? OR department LIKE ?", pattern, pattern, pattern)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []domain.Employee
	if err := base.Order("name ASC").Limit(limit).Find(&employees).Error; err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}
