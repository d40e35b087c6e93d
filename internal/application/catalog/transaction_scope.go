package catalog

import (
	"context"

	"github.com/solepos/backend/internal/domain/catalog"
)

// TransactionScope runs catalog writes that must land together, such as a
// product and its opening stock.
type TransactionScope interface {
	ExecuteCatalog(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the catalog repositories bound to one transaction
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Stock() catalog.StockRepository
}
