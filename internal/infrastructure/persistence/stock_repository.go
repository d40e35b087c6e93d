package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Get returns the stock row for (productID, size)
func (r *GormStockRepository) Get(ctx context.Context, productID uuid.UUID, size string) (*catalog.Stock, error) {
	return r.find(r.db.WithContext(ctx), productID, size)
}

// GetForUpdate returns the stock row and holds a row lock until the transaction ends.
// SQLite has no row locks; there the database-level write lock serializes writers instead.
func (r *GormStockRepository) GetForUpdate(ctx context.Context, productID uuid.UUID, size string) (*catalog.Stock, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), productID, size)
}

func (r *GormStockRepository) find(query *gorm.DB, productID uuid.UUID, size string) (*catalog.Stock, error) {
	var model models.StockModel
	if err := query.
		Where("product_id = ? AND size = ?", productID, size).
		First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	stock := model.ToDomain()
	return &stock, nil
}

// FindByProduct lists all sizes of a product
func (r *GormStockRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Stock, error) {
	var rows []models.StockModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("size ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	stock := make([]catalog.Stock, len(rows))
	for i := range rows {
		stock[i] = rows[i].ToDomain()
	}
	return stock, nil
}

// Set upserts the (productID, size) row to an absolute quantity
func (r *GormStockRepository) Set(ctx context.Context, productID uuid.UUID, size string, quantity int) (*catalog.Stock, error) {
	if err := catalog.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	row := newStockModel(productID, size, quantity)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   stockConflictColumns,
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, productID, size)
}

// Adjust applies delta to the row and returns the resulting quantity.
//
// A negative delta is a single conditional UPDATE guarded by quantity >= -delta, so
// concurrent sales can never drive stock below zero; when no row qualifies the result
// is shared.ErrInsufficientStock. A positive delta inserts the row when it is missing.
func (r *GormStockRepository) Adjust(ctx context.Context, productID uuid.UUID, size string, delta int) (int, error) {
	switch {
	case delta < 0:
		if err := r.decrement(ctx, productID, size, -delta); err != nil {
			return 0, err
		}
	case delta > 0:
		if err := r.increment(ctx, productID, size, delta); err != nil {
			return 0, err
		}
	}

	stock, err := r.Get(ctx, productID, size)
	if err != nil {
		if delta == 0 && errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return stock.Quantity, nil
}

func (r *GormStockRepository) decrement(ctx context.Context, productID uuid.UUID, size string, n int) error {
	result := r.db.WithContext(ctx).
		Model(&models.StockModel{}).
		Where("product_id = ? AND size = ? AND quantity >= ?", productID, size, n).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", n),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

func (r *GormStockRepository) increment(ctx context.Context, productID uuid.UUID, size string, n int) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: stockConflictColumns,
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("stock.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(newStockModel(productID, size, n)).Error
}

// FindLow lists rows at or below threshold with product and brand names, scarcest first
func (r *GormStockRepository) FindLow(ctx context.Context, threshold int) ([]catalog.LowStockItem, error) {
	var items []catalog.LowStockItem
	if err := r.db.WithContext(ctx).
		Table("stock").
		Select(`
			stock.product_id AS product_id,
			products.name AS product_name,
			COALESCE(brands.name, '') AS brand_name,
			stock.size AS size,
			stock.quantity AS quantity
		`).
		Joins("JOIN products ON products.id = stock.product_id").
		Joins("LEFT JOIN brands ON brands.id = products.brand_id").
		Where("stock.quantity <= ?", threshold).
		Order("stock.quantity ASC, products.name ASC, stock.size ASC").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	if items == nil {
		items = []catalog.LowStockItem{}
	}
	return items, nil
}

var stockConflictColumns = []clause.Column{{Name: "product_id"}, {Name: "size"}}

func newStockModel(productID uuid.UUID, size string, quantity int) *models.StockModel {
	return &models.StockModel{
		ID:        uuid.New(),
		ProductID: productID,
		Size:      size,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
}

// Ensure GormStockRepository implements StockRepository
var _ catalog.StockRepository = (*GormStockRepository)(nil)
