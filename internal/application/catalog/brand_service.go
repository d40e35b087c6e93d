package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/catalog"
)

// BrandService handles brand-related business operations
type BrandService struct {
	changeFeed
	brandRepo catalog.BrandRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository) *BrandService {
	return &BrandService{brandRepo: brandRepo}
}

// List returns all brands ordered by name
func (s *BrandService) List(ctx context.Context) ([]BrandResponse, error) {
	brands, err := s.brandRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]BrandResponse, len(brands))
	for i := range brands {
		responses[i] = ToBrandResponse(&brands[i])
	}
	return responses, nil
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, req BrandRequest) (*BrandResponse, error) {
	brand, err := catalog.NewBrand(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// Update renames a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req BrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brand.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	s.publish(ctx, ChangeBrandUpdated, id)
	resp := ToBrandResponse(brand)
	return &resp, nil
}

// Delete deletes a brand. Its products stay in the catalog without a brand.
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, ChangeBrandDeleted, id)
	return nil
}
