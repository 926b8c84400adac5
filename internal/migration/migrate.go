package migration

import (
	"gorm.io/gorm"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// Run applies schema migrations for all persisted models
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Employee{},
		&domain.Opinion{},
		&domain.Remark{},
		&domain.Document{},
		&domain.Category{},
		&domain.Subcategory{},
		&domain.ChatMessage{},
	)
}

// SeedCategories inserts a default category tree when the table is
// empty, so a fresh install has something to classify against.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []domain.Category{
		{Name: "infrastructure"},
		{Name: "education", Subcategories: []domain.Subcategory{
			{Name: "schools"}, {Name: "universities"},
		}},
		{Name: "health", Subcategories: []domain.Subcategory{
			{Name: "hospitals"}, {Name: "public_health"},
		}},
		{Name: "finance"},
		{Name: "legal"},
	}
	return db.Create(&categories).Error
}
