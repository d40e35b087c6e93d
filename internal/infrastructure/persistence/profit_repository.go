package persistence

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/report"
	"gorm.io/gorm"
)

const (
	revenueColumn = "COALESCE(SUM(bi.total), 0) AS total_revenue"
	profitColumn  = "COALESCE(SUM(bi.total - bi.purchase_price * bi.quantity), 0) AS total_profit"
)

// GormProfitRepository implements ProfitRepository using GORM.
// Every report ignores returned items.
type GormProfitRepository struct {
	db *gorm.DB
}

// NewGormProfitRepository creates a new GormProfitRepository
func NewGormProfitRepository(db *gorm.DB) *GormProfitRepository {
	return &GormProfitRepository{db: db}
}

// CustomerProfit aggregates per named customer
func (r *GormProfitRepository) CustomerProfit(ctx context.Context, q report.Query) ([]report.CustomerProfit, error) {
	var rows []report.CustomerProfit
	err := r.soldItems(ctx, q).
		Select(`
			b.customer_name AS customer_name,
			COUNT(DISTINCT b.id) AS total_bills,
			COALESCE(SUM(bi.quantity), 0) AS total_items,
		` + revenueColumn + ", " + profitColumn).
		Where("b.customer_name IS NOT NULL AND b.customer_name <> ''").
		Group("b.customer_name").
		Order("total_profit DESC, customer_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TotalRevenue = roundMoney(rows[i].TotalRevenue)
		rows[i].TotalProfit = roundMoney(rows[i].TotalProfit)
	}
	return nonNil(rows), nil
}

// ProductProfit aggregates per product still in the catalog
func (r *GormProfitRepository) ProductProfit(ctx context.Context, q report.Query) ([]report.ProductProfit, error) {
	var rows []report.ProductProfit
	err := r.soldItems(ctx, q).
		Select(`
			p.id AS product_id,
			p.name AS product_name,
			COALESCE(p.sub_brand, '') AS sub_brand,
			COALESCE(SUM(bi.quantity), 0) AS items_sold,
		` + revenueColumn + ", " + profitColumn).
		Joins("JOIN products p ON p.id = bi.product_id").
		Group("p.id, p.name, p.sub_brand").
		Order("total_profit DESC, product_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].TotalRevenue = roundMoney(rows[i].TotalRevenue)
		rows[i].TotalProfit = roundMoney(rows[i].TotalProfit)
	}
	return nonNil(rows), nil
}

// CategoryProfit aggregates per category
func (r *GormProfitRepository) CategoryProfit(ctx context.Context, q report.Query) ([]report.CategoryProfit, error) {
	var rows []report.CategoryProfit
	err := r.soldItems(ctx, q).
		Select(`
			c.id AS category_id,
			c.name AS category_name,
			COALESCE(SUM(bi.quantity), 0) AS items_sold,
		` + revenueColumn + ", " + profitColumn).
		Joins("JOIN products p ON p.id = bi.product_id").
		Joins("JOIN categories c ON c.id = p.category_id").
		Group("c.id, c.name").
		Order("total_profit DESC, category_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].TotalRevenue = roundMoney(rows[i].TotalRevenue)
		rows[i].TotalProfit = roundMoney(rows[i].TotalProfit)
	}
	return nonNil(rows), nil
}

// PeriodProfit buckets by calendar day or month of the bill date, newest first
func (r *GormProfitRepository) PeriodProfit(ctx context.Context, g report.Granularity, q report.Query) ([]report.PeriodProfit, error) {
	period := r.periodExpr(g)

	var rows []report.PeriodProfit
	err := r.soldItems(ctx, q).
		Select(period + ` AS period,
			COUNT(DISTINCT b.id) AS total_bills,
		` + revenueColumn + ", " + profitColumn).
		Group(period).
		Order("period DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TotalRevenue = roundMoney(rows[i].TotalRevenue)
		rows[i].TotalProfit = roundMoney(rows[i].TotalProfit)
	}
	return nonNil(rows), nil
}

// soldItems starts a bills x bill_items query restricted to sold lines within q
func (r *GormProfitRepository) soldItems(ctx context.Context, q report.Query) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("bill_items bi").
		Joins("JOIN bills b ON b.id = bi.bill_id").
		Where("bi.status <> ?", billing.ItemStatusReturned)
	if q.From != nil {
		query = query.Where("b.bill_date >= ?", *q.From)
	}
	if q.To != nil {
		query = query.Where("b.bill_date <= ?", *q.To)
	}
	return query
}

// periodExpr formats bill_date for the active dialect
func (r *GormProfitRepository) periodExpr(g report.Granularity) string {
	if r.db.Dialector.Name() == "sqlite" {
		if g == report.GranularityMonth {
			return "strftime('%Y-%m', b.bill_date)"
		}
		return "strftime('%Y-%m-%d', b.bill_date)"
	}
	if g == report.GranularityMonth {
		return "TO_CHAR(b.bill_date, 'YYYY-MM')"
	}
	return "TO_CHAR(b.bill_date, 'YYYY-MM-DD')"
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(billing.MoneyPlaces)
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// Ensure GormProfitRepository implements ProfitRepository
var _ report.ProfitRepository = (*GormProfitRepository)(nil)
