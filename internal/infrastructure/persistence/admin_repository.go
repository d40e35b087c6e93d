package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/identity"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminRepository implements AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// FindByID finds an admin by ID
func (r *GormAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds an admin by username
func (r *GormAdminRepository) FindByUsername(ctx context.Context, username string) (*identity.Admin, error) {
	var model models.AdminModel
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create creates a new admin
func (r *GormAdminRepository) Create(ctx context.Context, admin *identity.Admin) error {
	if err := r.db.WithContext(ctx).Create(models.AdminModelFromDomain(admin)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.WrapDomainError("ALREADY_EXISTS", "Username already exists", err)
		}
		return err
	}
	return nil
}

// Ensure GormAdminRepository implements AdminRepository
var _ identity.AdminRepository = (*GormAdminRepository)(nil)
