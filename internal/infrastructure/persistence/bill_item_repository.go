package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillItemRepository implements BillItemRepository using GORM
type GormBillItemRepository struct {
	db *gorm.DB
}

// NewGormBillItemRepository creates a new GormBillItemRepository
func NewGormBillItemRepository(db *gorm.DB) *GormBillItemRepository {
	return &GormBillItemRepository{db: db}
}

// Create inserts a line item
func (r *GormBillItemRepository) Create(ctx context.Context, item *billing.BillItem) error {
	return r.db.WithContext(ctx).Create(models.BillItemModelFromDomain(item)).Error
}

// FindByID finds a line item by its ID
func (r *GormBillItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillItem, error) {
	var model models.BillItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrItemNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBill returns every item of a bill in creation order
func (r *GormBillItemRepository) FindByBill(ctx context.Context, billID uuid.UUID) ([]billing.BillItem, error) {
	var rows []models.BillItemModel
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]billing.BillItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// MarkReturned flips a sold item to returned.
// The status guard in the WHERE clause makes the flip happen at most once.
func (r *GormBillItemRepository) MarkReturned(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BillItemModel{}).
		Where("id = ? AND status = ?", id, billing.ItemStatusSold).
		Updates(map[string]any{
			"status":     billing.ItemStatusReturned,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Ensure GormBillItemRepository implements BillItemRepository
var _ billing.BillItemRepository = (*GormBillItemRepository)(nil)
