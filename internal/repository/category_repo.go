package repository

import (
	"gorm.io/gorm"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// CategoryRepository handles category tree persistence
type CategoryRepository interface {
	ListWithSubcategories() ([]domain.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// ListWithSubcategories retrieves the full category tree
func (r *categoryRepository) ListWithSubcategories() ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Preload("Subcategories").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
