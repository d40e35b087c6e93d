package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var model models.BrandModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists brands by name
func (r *GormBrandRepository) FindAll(ctx context.Context) ([]catalog.Brand, error) {
	var rows []models.BrandModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	brands := make([]catalog.Brand, len(rows))
	for i := range rows {
		brands[i] = *rows[i].ToDomain()
	}
	return brands, nil
}

// Save creates or updates a brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	if err := r.db.WithContext(ctx).Save(models.BrandModelFromDomain(brand)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.WrapDomainError("ALREADY_EXISTS", "Brand name already exists", err)
		}
		return err
	}
	return nil
}

// Delete removes a brand. Products keep existing with no brand.
func (r *GormBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProductModel{}).
			Where("brand_id = ?", id).
			Update("brand_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BrandModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormBrandRepository implements BrandRepository
var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
