package catalog

import (
	"context"
	"errors"

	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// Create creates a category. Names differing only in case or spacing collide.
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// EnsureDefaults creates the Men, Women and Kids sections when missing. A
// concurrent insert by another instance counts as present.
func (s *CategoryService) EnsureDefaults(ctx context.Context) error {
	for _, name := range catalog.DefaultCategories {
		_, err := s.categoryRepo.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if _, err := s.Create(ctx, CategoryRequest{Name: name}); err != nil && !errors.Is(err, shared.ErrAlreadyExists) {
			return err
		}
	}
	return nil
}
