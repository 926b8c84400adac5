package domain

import "time"

// Employee is a staff account that can authenticate and be assigned
// opinions. Maps to the employees table.
type Employee struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Username   string    `gorm:"size:50;uniqueIndex" json:"username"`
	Password   string    `gorm:"size:100" json:"-"`
	Name       string    `gorm:"size:100" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex" json:"email"`
	Department string    `gorm:"size:100;index" json:"department"`
	Role       string    `gorm:"size:30" json:"role"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Employee) TableName() string {
	return "employees"
}

// EmployeeResponse is the employee view-model returned by the API
type EmployeeResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

// ToResponse strips credentials from an employee record
func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		ID:         e.ID,
		Username:   e.Username,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Role:       e.Role,
	}
}
