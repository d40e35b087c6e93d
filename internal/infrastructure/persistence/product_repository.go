package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const productDetailsColumns = "products.*, " +
	"COALESCE(brands.name, '') AS brand_name, " +
	"COALESCE(categories.name, '') AS category_name"

// productDetailsRow is a product row joined with its brand and category names
type productDetailsRow struct {
	models.ProductModel
	BrandName    string
	CategoryName string
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindDetails loads a product with its brand and category names and stock rows
func (r *GormProductRepository) FindDetails(ctx context.Context, id uuid.UUID) (*catalog.ProductDetails, error) {
	var row productDetailsRow
	if err := r.detailsQuery(ctx).Where("products.id = ?", id).Take(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	details, err := r.attachStock(ctx, []productDetailsRow{row})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// FindAllDetails lists products with names and stock rows.
// Supported filters: brand_id, category_id, ready_for_sale.
func (r *GormProductRepository) FindAllDetails(ctx context.Context, filter shared.Filter) ([]catalog.ProductDetails, int64, error) {
	filter = filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []productDetailsRow
	if err := r.applyFilter(r.detailsQuery(ctx), filter).
		Order(productSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	details, err := r.attachStock(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// Delete removes a product with its stock rows.
// Bill items that sold it keep their data with a null product reference.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.StockModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BillItemModel{}).
			Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormProductRepository) detailsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select(productDetailsColumns).
		Joins("LEFT JOIN brands ON brands.id = products.brand_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

// applyFilter applies search and exact-match filters to a products query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.article) LIKE ? OR LOWER(products.sub_brand) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if brandID, ok := filter.Filters["brand_id"]; ok {
		query = query.Where("products.brand_id = ?", brandID)
	}
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("products.category_id = ?", categoryID)
	}
	if ready, ok := filter.Filters["ready_for_sale"]; ok {
		query = query.Where("products.is_ready_for_sale = ?", ready)
	}
	return query
}

// attachStock loads stock rows for all products in one query
func (r *GormProductRepository) attachStock(ctx context.Context, rows []productDetailsRow) ([]catalog.ProductDetails, error) {
	details := make([]catalog.ProductDetails, len(rows))
	if len(rows) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(rows))
	index := make(map[uuid.UUID]int, len(rows))
	for i := range rows {
		details[i] = catalog.ProductDetails{
			Product:      *rows[i].ToDomain(),
			BrandName:    rows[i].BrandName,
			CategoryName: rows[i].CategoryName,
			Stock:        []catalog.Stock{},
		}
		ids[i] = rows[i].ID
		index[rows[i].ID] = i
	}

	var stock []models.StockModel
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("size ASC").
		Find(&stock).Error; err != nil {
		return nil, err
	}
	for i := range stock {
		if pos, ok := index[stock[i].ProductID]; ok {
			details[pos].Stock = append(details[pos].Stock, stock[i].ToDomain())
		}
	}
	return details, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
