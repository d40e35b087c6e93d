package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	appbilling "github.com/solepos/backend/internal/application/billing"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresDB starts a throwaway PostgreSQL container and applies the
// embedded migrations. Skipped with -short or when Docker is unavailable.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("shoe_pos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(16)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	require.False(t, dirty)
	require.NotZero(t, version)

	return db
}

func saleRequest(number string, fx catalogFixture, size string, qty int) appbilling.CreateBillRequest {
	price := fx.product.SellingPrice
	total := price.Mul(decimal.NewFromInt(int64(qty)))
	return appbilling.CreateBillRequest{
		BillNumber:   number,
		Subtotal:     total,
		TotalAmount:  total,
		CustomerName: "Walk-in",
		Items: []appbilling.BillItemRequest{{
			ProductID:     fx.product.ID,
			Size:          size,
			Quantity:      qty,
			Price:         price,
			MRP:           price,
			PurchasePrice: fx.product.PurchasePrice,
			Total:         total,
		}},
	}
}

func TestPostgres_ConcurrentSalesNeverOversell(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	fx := seedProduct(t, db, "Runner", "1000", "600", "12")
	_, err := NewGormStockRepository(db).Set(ctx, fx.product.ID, "8", 3)
	require.NoError(t, err)

	service := appbilling.NewBillService(NewGormTransactionScope(db), NewGormBillRepository(db), nil)

	const buyers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sold     int
		rejected int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.CreateBill(ctx, saleRequest(fmt.Sprintf("PG-%03d", i), fx, "8", 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sold++
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 3, sold)
	assert.Equal(t, buyers-3, rejected)

	stock, err := NewGormStockRepository(db).Get(ctx, fx.product.ID, "8")
	require.NoError(t, err)
	assert.Zero(t, stock.Quantity)

	var bills int64
	require.NoError(t, db.Table("bills").Count(&bills).Error)
	assert.Equal(t, int64(3), bills, "rejected sales leave no bill behind")
}

func TestPostgres_ConcurrentReturnsRestoreStockOnce(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	fx := seedProduct(t, db, "Loafer", "2000", "1200", "5")
	_, err := NewGormStockRepository(db).Set(ctx, fx.product.ID, "9", 2)
	require.NoError(t, err)

	service := appbilling.NewBillService(NewGormTransactionScope(db), NewGormBillRepository(db), nil)
	bill, err := service.CreateBill(ctx, saleRequest("PG-RET-1", fx, "9", 2))
	require.NoError(t, err)
	require.Len(t, bill.Items, 1)
	itemID := bill.Items[0].ID

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		returned int
		dupes    int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ReturnLineItem(ctx, itemID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				returned++
			case errors.Is(err, shared.ErrAlreadyReturned):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, returned)
	assert.Equal(t, 3, dupes)

	stock, err := NewGormStockRepository(db).Get(ctx, fx.product.ID, "9")
	require.NoError(t, err)
	assert.Equal(t, 2, stock.Quantity)

	got, err := service.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalAmount.IsZero())
}

func TestPostgres_DuplicateBillNumber(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	fx := seedProduct(t, db, "Sandal", "500", "300", "5")
	_, err := NewGormStockRepository(db).Set(ctx, fx.product.ID, "7", 5)
	require.NoError(t, err)

	service := appbilling.NewBillService(NewGormTransactionScope(db), NewGormBillRepository(db), nil)
	_, err = service.CreateBill(ctx, saleRequest("PG-DUP", fx, "7", 1))
	require.NoError(t, err)

	_, err = service.CreateBill(ctx, saleRequest("PG-DUP", fx, "7", 1))
	assert.ErrorIs(t, err, shared.ErrDuplicateBillNumber)

	stock, err := NewGormStockRepository(db).Get(ctx, fx.product.ID, "7")
	require.NoError(t, err)
	assert.Equal(t, 4, stock.Quantity, "the failed bill must not deduct stock")
}
