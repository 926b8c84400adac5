package service

import (
	"context"
	"encoding/json"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	pkgcache "github.com/opiniondesk/opiniondesk-backend/pkg/cache"
)

// CategoryService serves the structured category tree
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	cache        pkgcache.Service
}

// NewCategoryService creates a new CategoryService. cache may be nil.
func NewCategoryService(categoryRepo repository.CategoryRepository, cache pkgcache.Service) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

// Structured returns the category-to-subcategories map, cached when
// Redis is available.
func (s *CategoryService) Structured(ctx context.Context) (domain.StructuredCategories, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		if data, err := s.cache.GetCategories(ctx); err == nil && data != nil {
			var structured domain.StructuredCategories
			if json.Unmarshal(data, &structured) == nil {
				return structured, nil
			}
		}
	}

	categories, err := s.categoryRepo.ListWithSubcategories()
	if err != nil {
		return nil, err
	}
	structured := domain.Structure(categories)

	if s.cache != nil {
		_ = s.cache.SetCategories(ctx, structured)
	}
	return structured, nil
}
