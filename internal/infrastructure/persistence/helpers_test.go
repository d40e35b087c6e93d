package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockGormDB opens GORM over sqlmock with the postgres dialector
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// newMockGormDBWithPings is newMockGormDB with ping expectations enabled
func newMockGormDBWithPings(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

// newSQLiteDB opens a migrated in-memory SQLite database.
// A single connection keeps every query on the same in-memory database.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type catalogFixture struct {
	brand    *catalog.Brand
	category *catalog.Category
	product  *catalog.Product
}

// seedProduct creates a brand, a category and a product priced at the given values
func seedProduct(t *testing.T, db *gorm.DB, name string, selling, purchase, gst string) catalogFixture {
	t.Helper()
	ctx := context.Background()

	brand, err := catalog.NewBrand("Brand " + name)
	require.NoError(t, err)
	require.NoError(t, NewGormBrandRepository(db).Save(ctx, brand))

	categories := NewGormCategoryRepository(db)
	category, err := categories.FindByName(ctx, "Men")
	if err != nil {
		category, err = catalog.NewCategory("Men")
		require.NoError(t, err)
		require.NoError(t, categories.Save(ctx, category))
	}

	product, err := catalog.NewProduct(catalog.ProductAttributes{
		BrandID:       brand.ID,
		CategoryID:    category.ID,
		Name:          name,
		SubBrand:      "Classic",
		Article:       "ART-" + name,
		PurchasePrice: decimal.RequireFromString(purchase),
		SellingPrice:  decimal.RequireFromString(selling),
		GSTPercent:    decimal.RequireFromString(gst),
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(ctx, product))

	return catalogFixture{brand: brand, category: category, product: product}
}

// seedBill inserts a bill header and sold lines, without touching stock
func seedBill(t *testing.T, db *gorm.DB, number, customer string, date time.Time, lines ...billing.LineInput) *billing.Bill {
	t.Helper()
	ctx := context.Background()

	bill, err := billing.NewBill(billing.Header{
		BillNumber:   number,
		BillDate:     date,
		CustomerName: customer,
	})
	require.NoError(t, err)

	items := NewGormBillItemRepository(db)
	for _, line := range lines {
		item, err := billing.NewBillItem(bill.ID, line, nil)
		require.NoError(t, err)
		bill.Items = append(bill.Items, *item)
	}
	bill.ApplyTotals(bill.Recompute())

	require.NoError(t, NewGormBillRepository(db).Create(ctx, bill))
	for i := range bill.Items {
		require.NoError(t, items.Create(ctx, &bill.Items[i]))
	}
	return bill
}

func line(productID uuid.UUID, size string, qty int, price, purchase string) billing.LineInput {
	return billing.LineInput{
		ProductID:     productID,
		Size:          size,
		Quantity:      qty,
		Price:         decimal.RequireFromString(price),
		MRP:           decimal.RequireFromString(price),
		PurchasePrice: decimal.RequireFromString(purchase),
	}
}

func noon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
