package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/solepos/backend/internal/domain/billing"
	"github.com/solepos/backend/internal/domain/catalog"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// BillService is the billing ledger: it creates bills against stock and
// returns or replaces line items while keeping bill totals, stock and item
// status consistent. Every mutation runs in one transaction.
type BillService struct {
	txScope   TransactionScope
	bills     billing.BillRepository
	logger    *zap.Logger
	listeners []Listener
}

// NewBillService creates a new BillService
func NewBillService(txScope TransactionScope, bills billing.BillRepository, logger *zap.Logger) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{
		txScope: txScope,
		bills:   bills,
		logger:  logger,
	}
}

// AddListener registers a listener notified after each committed mutation
func (s *BillService) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// CreateBill persists the header and its lines and deducts stock for each line.
// Header aggregates are stored as given. Each line freezes its product's GST rate.
func (s *BillService) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResponse, error) {
	log := logger.L(ctx, s.logger)

	bill, err := billing.NewBill(req.header())
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A bill needs at least one item")
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Bills().Create(ctx, bill); err != nil {
			return err
		}
		for _, in := range req.Items {
			item, err := s.sell(ctx, repos, bill.ID, in, false)
			if err != nil {
				return err
			}
			bill.Items = append(bill.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(log, "Create bill failed", err, zap.String("bill_number", bill.BillNumber))
	}

	log.Info("Bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("bill_number", bill.BillNumber),
		zap.Int("items", len(bill.Items)),
		zap.String("total_amount", bill.TotalAmount.String()))
	s.publish(ctx, LedgerEvent{
		Kind:        EventBillCreated,
		BillID:      bill.ID,
		TotalAmount: bill.TotalAmount,
		ItemCount:   len(bill.Items),
	})

	return s.reload(ctx, bill), nil
}

// ReturnLineItem marks a sold line returned, restores its stock and recomputes the bill.
func (s *BillService) ReturnLineItem(ctx context.Context, itemID uuid.UUID) (*BillResponse, error) {
	log := logger.L(ctx, s.logger).With(zap.String("item_id", itemID.String()))

	var bill *billing.Bill
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, _, err = s.lockAndReturn(ctx, repos, itemID)
		if err != nil {
			return err
		}
		return s.recompute(ctx, repos, bill)
	})
	if err != nil {
		return nil, s.fail(log, "Return line item failed", err)
	}

	log.Info("Line item returned",
		zap.String("bill_id", bill.ID.String()),
		zap.String("total_amount", bill.TotalAmount.String()))
	s.publish(ctx, LedgerEvent{
		Kind:        EventItemReturned,
		BillID:      bill.ID,
		ItemID:      itemID,
		TotalAmount: bill.TotalAmount,
		ItemCount:   len(bill.ActiveItems()),
	})

	return s.reload(ctx, bill), nil
}

// ReplaceLineItem returns the old line and sells the replacement in its place.
// The replacement must be in stock; otherwise nothing changes.
func (s *BillService) ReplaceLineItem(ctx context.Context, itemID uuid.UUID, req BillItemRequest) (*BillResponse, error) {
	log := logger.L(ctx, s.logger).With(zap.String("item_id", itemID.String()))

	var bill *billing.Bill
	var replacement *billing.BillItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		bill, _, err = s.lockAndReturn(ctx, repos, itemID)
		if err != nil {
			return err
		}
		replacement, err = s.sell(ctx, repos, bill.ID, req, true)
		if err != nil {
			return err
		}
		return s.recompute(ctx, repos, bill)
	})
	if err != nil {
		return nil, s.fail(log, "Replace line item failed", err)
	}

	log.Info("Line item replaced",
		zap.String("bill_id", bill.ID.String()),
		zap.String("replacement_id", replacement.ID.String()),
		zap.String("total_amount", bill.TotalAmount.String()))
	s.publish(ctx, LedgerEvent{
		Kind:        EventItemReplaced,
		BillID:      bill.ID,
		ItemID:      itemID,
		TotalAmount: bill.TotalAmount,
		ItemCount:   len(bill.ActiveItems()),
	})

	return s.reload(ctx, bill), nil
}

// GetBill returns a bill with all its items, returned ones included
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.bills.FindWithItems(ctx, id)
	if err != nil {
		return nil, s.fail(logger.L(ctx, s.logger), "Get bill failed", err, zap.String("bill_id", id.String()))
	}
	resp := ToBillResponse(bill)
	return &resp, nil
}

// ListBills returns bill headers, newest first
func (s *BillService) ListBills(ctx context.Context, filter BillListFilter) (*shared.Paginated[BillResponse], error) {
	query, err := toListFilter(filter)
	if err != nil {
		return nil, err
	}

	bills, total, err := s.bills.List(ctx, query)
	if err != nil {
		return nil, s.fail(logger.L(ctx, s.logger), "List bills failed", err)
	}

	page := shared.NewPaginated(ToBillResponses(bills), total, query.Page, query.PageSize)
	return &page, nil
}

// sell inserts one sold line with the product's GST rate frozen on it and
// deducts its quantity from stock. For replacements the stock is checked
// under a row lock first and shortfalls report InsufficientStockForReplacement.
func (s *BillService) sell(ctx context.Context, repos TransactionalRepositories, billID uuid.UUID, in BillItemRequest, replacement bool) (*billing.BillItem, error) {
	product, err := repos.Products().FindByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError(shared.ErrNotFound.Code,
				fmt.Sprintf("Product %s not found", in.ProductID), err)
		}
		return nil, err
	}

	rate := product.GSTPercent
	item, err := billing.NewBillItem(billID, in.toLine(), &rate)
	if err != nil {
		return nil, err
	}

	if replacement {
		if err := ensureStock(ctx, repos.Stock(), product, item); err != nil {
			return nil, err
		}
	}

	if err := repos.Items().Create(ctx, item); err != nil {
		return nil, err
	}
	if _, err := repos.Stock().Adjust(ctx, product.ID, item.Size, -item.Quantity); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			return nil, shortage(product, item, replacement, err)
		}
		return nil, err
	}

	item.ProductName = product.Name
	return item, nil
}

func ensureStock(ctx context.Context, stock catalog.StockRepository, product *catalog.Product, item *billing.BillItem) error {
	row, err := stock.GetForUpdate(ctx, product.ID, item.Size)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shortage(product, item, true, err)
		}
		return err
	}
	if row.Quantity < item.Quantity {
		return shortage(product, item, true, nil)
	}
	return nil
}

func shortage(product *catalog.Product, item *billing.BillItem, replacement bool, cause error) error {
	base := shared.ErrInsufficientStock
	if replacement {
		base = shared.ErrInsufficientStockForReplacement
	}
	return shared.WrapDomainError(base.Code,
		fmt.Sprintf("Insufficient stock for %s size %s", product.Name, item.Size), cause)
}

// lockAndReturn loads the item, locks its bill row, re-reads the item under
// the lock and flips it to returned, restoring its stock.
func (s *BillService) lockAndReturn(ctx context.Context, repos TransactionalRepositories, itemID uuid.UUID) (*billing.Bill, *billing.BillItem, error) {
	item, err := repos.Items().FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	bill, err := repos.Bills().FindByIDForUpdate(ctx, item.BillID)
	if err != nil {
		return nil, nil, err
	}
	// another transaction may have returned it while we waited for the lock
	item, err = repos.Items().FindByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if err := item.MarkReturned(); err != nil {
		return nil, nil, err
	}

	flipped, err := repos.Items().MarkReturned(ctx, item.ID)
	if err != nil {
		return nil, nil, err
	}
	if !flipped {
		return nil, nil, shared.ErrAlreadyReturned
	}

	if item.ProductID != nil {
		if _, err := repos.Stock().Adjust(ctx, *item.ProductID, item.Size, item.Quantity); err != nil {
			return nil, nil, err
		}
	}
	return bill, item, nil
}

// recompute derives the bill aggregates from its surviving items and persists them
func (s *BillService) recompute(ctx context.Context, repos TransactionalRepositories, bill *billing.Bill) error {
	items, err := repos.Items().FindByBill(ctx, bill.ID)
	if err != nil {
		return err
	}
	bill.Items = items
	totals := bill.Recompute()
	if err := repos.Bills().UpdateTotals(ctx, bill.ID, totals); err != nil {
		return err
	}
	bill.ApplyTotals(totals)
	return nil
}

// reload reads the committed bill with enriched items, falling back to the in-memory copy
func (s *BillService) reload(ctx context.Context, bill *billing.Bill) *BillResponse {
	loaded, err := s.bills.FindWithItems(ctx, bill.ID)
	if err != nil {
		logger.L(ctx, s.logger).Warn("Reload after commit failed",
			zap.String("bill_id", bill.ID.String()), zap.Error(err))
		loaded = bill
	}
	resp := ToBillResponse(loaded)
	return &resp
}

// fail passes domain errors through and turns anything else into an opaque TransactionFailure
func (s *BillService) fail(log *zap.Logger, msg string, err error, fields ...zap.Field) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		log.Warn(msg, append(fields, zap.String("code", domainErr.Code), zap.Error(err))...)
		return err
	}
	log.Error(msg, append(fields, zap.Error(err))...)
	return shared.NewTransactionFailure(err)
}

func (s *BillService) publish(ctx context.Context, event LedgerEvent) {
	for _, l := range s.listeners {
		l.OnLedgerEvent(ctx, event)
	}
}

func toListFilter(f BillListFilter) (billing.ListFilter, error) {
	base := shared.DefaultFilter()
	base.Search = strings.TrimSpace(f.Search)
	if f.Page > 0 {
		base.Page = f.Page
	}
	if f.PageSize > 0 {
		base.PageSize = f.PageSize
	}
	base.OrderBy = f.OrderBy
	base.OrderDir = f.OrderDir
	if base.OrderBy == "" {
		base.OrderBy = "bill_date"
	}

	query := billing.ListFilter{Filter: base.Normalize()}
	if f.From != "" {
		from, err := time.Parse(time.DateOnly, f.From)
		if err != nil {
			return query, shared.NewDomainError("INVALID_INPUT", "from must be YYYY-MM-DD")
		}
		query.From = &from
	}
	if f.To != "" {
		to, err := time.Parse(time.DateOnly, f.To)
		if err != nil {
			return query, shared.NewDomainError("INVALID_INPUT", "to must be YYYY-MM-DD")
		}
		// inclusive of the whole day
		end := to.Add(24*time.Hour - time.Nanosecond)
		query.To = &end
	}
	return query, nil
}
