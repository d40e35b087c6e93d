package telemetry

import (
	"context"
	"fmt"

	appbilling "github.com/solepos/backend/internal/application/billing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// LowStockCounter reports how many stock rows sit below the low-stock threshold
type LowStockCounter interface {
	LowCount(ctx context.Context) (int64, error)
}

// LedgerMetrics records bill activity as OTel instruments. It listens to
// committed ledger events, so rolled back transactions are never counted.
type LedgerMetrics struct {
	logger       *zap.Logger
	billsCreated metric.Int64Counter
	billAmount   metric.Float64Counter
	itemEvents   metric.Int64Counter
	billItems    metric.Int64Histogram
}

// NewLedgerMetrics registers the ledger instruments on meter. When lowStock
// is non-nil an observable gauge polls it on every collection.
func NewLedgerMetrics(meter metric.Meter, lowStock LowStockCounter, logger *zap.Logger) (*LedgerMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &LedgerMetrics{logger: logger}

	var err error
	if m.billsCreated, err = meter.Int64Counter("pos_bills_created_total",
		metric.WithDescription("Bills committed"),
		metric.WithUnit("{bills}")); err != nil {
		return nil, fmt.Errorf("failed to create bills counter: %w", err)
	}
	if m.billAmount, err = meter.Float64Counter("pos_bill_amount_total",
		metric.WithDescription("Sum of total_amount over committed bills"),
		metric.WithUnit("{currency}")); err != nil {
		return nil, fmt.Errorf("failed to create amount counter: %w", err)
	}
	if m.itemEvents, err = meter.Int64Counter("pos_line_item_events_total",
		metric.WithDescription("Line items returned or replaced"),
		metric.WithUnit("{items}")); err != nil {
		return nil, fmt.Errorf("failed to create item events counter: %w", err)
	}
	if m.billItems, err = meter.Int64Histogram("pos_bill_items",
		metric.WithDescription("Line items per bill at creation"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 5, 8, 13, 21)); err != nil {
		return nil, fmt.Errorf("failed to create bill items histogram: %w", err)
	}

	if lowStock != nil {
		_, err = meter.Int64ObservableGauge("pos_low_stock_rows",
			metric.WithDescription("Stock rows at or below the low-stock threshold"),
			metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
				n, err := lowStock.LowCount(ctx)
				if err != nil {
					logger.Warn("Low stock collection failed", zap.Error(err))
					return nil
				}
				o.Observe(n)
				return nil
			}))
		if err != nil {
			return nil, fmt.Errorf("failed to create low stock gauge: %w", err)
		}
	}
	return m, nil
}

// OnLedgerEvent implements appbilling.Listener
func (m *LedgerMetrics) OnLedgerEvent(ctx context.Context, event appbilling.LedgerEvent) {
	switch event.Kind {
	case appbilling.EventBillCreated:
		m.billsCreated.Add(ctx, 1)
		m.billAmount.Add(ctx, event.TotalAmount.InexactFloat64())
		m.billItems.Record(ctx, int64(event.ItemCount))
	case appbilling.EventItemReturned, appbilling.EventItemReplaced:
		m.itemEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(event.Kind))))
	}
}

var _ appbilling.Listener = (*LedgerMetrics)(nil)
