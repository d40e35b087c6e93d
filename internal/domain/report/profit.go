package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Query bounds a report by bill date. Nil bounds are open.
type Query struct {
	From *time.Time
	To   *time.Time
}

// CustomerProfit aggregates sold items per named customer
type CustomerProfit struct {
	CustomerName string          `json:"customer_name"`
	TotalBills   int64           `json:"total_bills"`
	TotalItems   int64           `json:"total_items"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// ProductProfit aggregates sold items per product
type ProductProfit struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SubBrand     string          `json:"sub_brand"`
	ItemsSold    int64           `json:"items_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// CategoryProfit aggregates sold items per category
type CategoryProfit struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ItemsSold    int64           `json:"items_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// PeriodProfit aggregates sold items per day ("2006-01-02") or month ("2006-01")
type PeriodProfit struct {
	Period       string          `json:"period"`
	TotalBills   int64           `json:"total_bills"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

// Granularity selects the period bucket
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// ProfitRepository computes profit reports over non-returned bill items.
// Profit of a line is total - purchase_price x quantity.
type ProfitRepository interface {
	// CustomerProfit ranks customers by profit, skipping bills without a customer name
	CustomerProfit(ctx context.Context, q Query) ([]CustomerProfit, error)

	// ProductProfit ranks products by profit
	ProductProfit(ctx context.Context, q Query) ([]ProductProfit, error)

	// CategoryProfit ranks categories by profit
	CategoryProfit(ctx context.Context, q Query) ([]CategoryProfit, error)

	// PeriodProfit buckets by day or month, newest first
	PeriodProfit(ctx context.Context, g Granularity, q Query) ([]PeriodProfit, error)
}
