package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const billItemDetailsColumns = "bill_items.*, " +
	"COALESCE(products.name, '') AS product_name, " +
	"COALESCE(brands.name, '') AS brand_name, " +
	"COALESCE(categories.name, '') AS category_name"

// billItemRow is a bill item joined with the names of what it sold.
// The names are empty once the product has been deleted.
type billItemRow struct {
	models.BillItemModel
	ProductName  string
	BrandName    string
	CategoryName string
}

func (r *billItemRow) toDomain() billing.BillItem {
	item := r.BillItemModel.ToDomain()
	item.ProductName = r.ProductName
	item.BrandName = r.BrandName
	item.CategoryName = r.CategoryName
	return *item
}

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Create inserts the bill header
func (r *GormBillRepository) Create(ctx context.Context, bill *billing.Bill) error {
	if err := r.db.WithContext(ctx).Create(models.BillModelFromDomain(bill)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.WrapDomainError(
				shared.ErrDuplicateBillNumber.Code,
				"Bill number "+bill.BillNumber+" already exists",
				err,
			)
		}
		return err
	}
	return nil
}

// FindByID loads the bill header
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return r.findHeader(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads the bill header with SELECT ... FOR UPDATE.
// Return and replace take this lock before touching sibling items so that
// concurrent recomputes of one bill run one after another.
func (r *GormBillRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	return r.findHeader(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormBillRepository) findHeader(query *gorm.DB, id uuid.UUID) (*billing.Bill, error) {
	var model models.BillModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindWithItems loads the header and all its items, enriched with product,
// brand and category names, in creation order
func (r *GormBillRepository) FindWithItems(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	bill, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var rows []billItemRow
	if err := r.db.WithContext(ctx).
		Table("bill_items").
		Select(billItemDetailsColumns).
		Joins("LEFT JOIN products ON products.id = bill_items.product_id").
		Joins("LEFT JOIN brands ON brands.id = products.brand_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("bill_items.bill_id = ?", id).
		Order("bill_items.created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	bill.Items = make([]billing.BillItem, len(rows))
	for i := range rows {
		bill.Items[i] = rows[i].toDomain()
	}
	return bill, nil
}

// List returns bill headers, newest first unless another order is requested
func (r *GormBillRepository) List(ctx context.Context, filter billing.ListFilter) ([]billing.Bill, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BillModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.BillModel{}), filter).
		Order(billSort.orderBy(filter.OrderBy, filter.OrderDir)).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	bills := make([]billing.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, total, nil
}

// UpdateTotals persists recomputed aggregates
func (r *GormBillRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totals billing.Totals) error {
	result := r.db.WithContext(ctx).
		Model(&models.BillModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"subtotal":        totals.Subtotal,
			"gst_amount":      totals.GSTAmount,
			"discount_amount": totals.DiscountAmount,
			"total_amount":    totals.TotalAmount,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search and date bounds to a bills query
func (r *GormBillRepository) applyFilter(query *gorm.DB, filter billing.ListFilter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(bill_number) LIKE ? OR LOWER(customer_name) LIKE ?", pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("bill_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("bill_date <= ?", *filter.To)
	}
	return query
}

// Ensure GormBillRepository implements BillRepository
var _ billing.BillRepository = (*GormBillRepository)(nil)
