package billing

import (
	"context"

	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to the repositories the ledger touches.
// Everything done through the repositories handed to fn commits or rolls back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	// Bills returns the bill header repository scoped to the current transaction
	Bills() billing.BillRepository
	// Items returns the bill item repository scoped to the current transaction
	Items() billing.BillItemRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Stock returns the stock repository scoped to the current transaction
	Stock() catalog.StockRepository
}
