package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	changeFeed
	txScope      TransactionScope
	productRepo  catalog.ProductRepository
	brandRepo    catalog.BrandRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	brandRepo catalog.BrandRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		txScope:      txScope,
		productRepo:  productRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns a page of products with their stock
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	query := shared.DefaultFilter()
	query.Search = strings.TrimSpace(filter.Search)
	if filter.Page > 0 {
		query.Page = filter.Page
	}
	if filter.PageSize > 0 {
		query.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		query.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		query.OrderDir = filter.OrderDir
	}
	if filter.BrandID != "" {
		id, err := uuid.Parse(filter.BrandID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "brand_id must be a UUID")
		}
		query.Filters["brand_id"] = id
	}
	if filter.CategoryID != "" {
		id, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "category_id must be a UUID")
		}
		query.Filters["category_id"] = id
	}
	if filter.ReadyForSale != nil {
		query.Filters["ready_for_sale"] = *filter.ReadyForSale
	}
	query = query.Normalize()

	products, total, err := s.productRepo.FindAllDetails(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(responses, total, query.Page, query.PageSize)
	return &page, nil
}

// GetByID returns a product with its stock
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	details, err := s.productRepo.FindDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(details)
	return &resp, nil
}

// Create creates a product and its opening stock in one transaction
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	if err := s.checkReferences(ctx, req.BrandID, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.attributes())
	if err != nil {
		return nil, err
	}

	sizes := make(map[string]int, len(req.Sizes))
	for _, sq := range req.Sizes {
		size, err := catalog.NormalizeSize(sq.Size)
		if err != nil {
			return nil, err
		}
		if err := catalog.ValidateQuantity(sq.Quantity); err != nil {
			return nil, err
		}
		if _, dup := sizes[size]; dup {
			return nil, shared.NewDomainError("INVALID_SIZE", "Size "+size+" is listed twice")
		}
		sizes[size] = sq.Quantity
	}

	err = s.txScope.ExecuteCatalog(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		for _, sq := range req.Sizes {
			size, _ := catalog.NormalizeSize(sq.Size)
			if _, err := repos.Stock().Set(ctx, product.ID, size, sq.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.Int("sizes", len(sizes)))

	return s.GetByID(ctx, product.ID)
}

// Update replaces a product's editable fields. Stock is managed separately.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.BrandID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := product.Update(req.attributes()); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, ChangeProductUpdated, id)
	return s.GetByID(ctx, id)
}

// Delete deletes a product and its stock. Bills that sold it keep their lines.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx, s.logger).Info("Product deleted", zap.String("product_id", id.String()))
	s.publish(ctx, ChangeProductDeleted, id)
	return nil
}

func (s *ProductService) checkReferences(ctx context.Context, brandID, categoryID uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_BRAND", "Brand not found")
		}
		return err
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}
