package catalog

import (
	"context"
	"errors"

	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StockService manages per-size stock levels outside of billing
type StockService struct {
	stockRepo    catalog.StockRepository
	productRepo  catalog.ProductRepository
	lowThreshold int
	logger       *zap.Logger
}

// NewStockService creates a new StockService.
// lowThreshold is used by Low when the caller passes zero.
func NewStockService(stockRepo catalog.StockRepository, productRepo catalog.ProductRepository, lowThreshold int, logger *zap.Logger) *StockService {
	if lowThreshold <= 0 {
		lowThreshold = catalog.DefaultLowStockThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		lowThreshold: lowThreshold,
		logger:       logger,
	}
}

// Set sets the absolute quantity for a size, creating the row when needed
func (s *StockService) Set(ctx context.Context, req SetStockRequest) (*StockResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	size, err := catalog.NormalizeSize(req.Size)
	if err != nil {
		return nil, err
	}

	stock, err := s.stockRepo.Set(ctx, req.ProductID, size, req.Quantity)
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Stock set",
		zap.String("product_id", req.ProductID.String()),
		zap.String("size", size),
		zap.Int("quantity", stock.Quantity))

	resp := ToStockResponse(stock)
	return &resp, nil
}

// Adjust adds delta to a size. Removing more than is on hand fails with InsufficientStock.
func (s *StockService) Adjust(ctx context.Context, req AdjustStockRequest) (*StockResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	size, err := catalog.NormalizeSize(req.Size)
	if err != nil {
		return nil, err
	}
	if req.Delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Delta cannot be zero")
	}

	if _, err := s.stockRepo.Adjust(ctx, req.ProductID, size, req.Delta); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			return nil, shared.WrapDomainError(shared.ErrInsufficientStock.Code,
				"Insufficient stock for "+product.Name+" size "+size, err)
		}
		return nil, err
	}

	stock, err := s.stockRepo.Get(ctx, req.ProductID, size)
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Stock adjusted",
		zap.String("product_id", req.ProductID.String()),
		zap.String("size", size),
		zap.Int("delta", req.Delta),
		zap.Int("quantity", stock.Quantity))

	resp := ToStockResponse(stock)
	return &resp, nil
}

// Low lists sizes at or below threshold, or the configured default when threshold <= 0
func (s *StockService) Low(ctx context.Context, threshold int) ([]LowStockResponse, error) {
	if threshold <= 0 {
		threshold = s.lowThreshold
	}
	items, err := s.stockRepo.FindLow(ctx, threshold)
	if err != nil {
		return nil, err
	}
	responses := make([]LowStockResponse, len(items))
	for i, item := range items {
		responses[i] = LowStockResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			BrandName:   item.BrandName,
			Size:        item.Size,
			Quantity:    item.Quantity,
		}
	}
	return responses, nil
}

// LowCount counts sizes at or below the configured threshold
func (s *StockService) LowCount(ctx context.Context) (int64, error) {
	items, err := s.stockRepo.FindLow(ctx, s.lowThreshold)
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}
