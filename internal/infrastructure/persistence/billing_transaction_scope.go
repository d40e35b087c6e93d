package persistence

import (
	"context"

	appbilling "github.com/solepos/backend/internal/application/billing"
	appcatalog "github.com/solepos/backend/internal/application/catalog"
	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// ExecuteCatalog runs fn within a database transaction for catalog writes.
func (s *GormTransactionScope) ExecuteCatalog(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Bills returns the bill repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Bills() billing.BillRepository {
	return NewGormBillRepository(r.tx)
}

// Items returns the bill item repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Items() billing.BillItemRepository {
	return NewGormBillItemRepository(r.tx)
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Stock returns the stock repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Stock() catalog.StockRepository {
	return NewGormStockRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)

// Ensure GormTransactionScope implements the catalog TransactionScope
var _ appcatalog.TransactionScope = (*GormTransactionScope)(nil)
