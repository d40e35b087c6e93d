package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appbilling "github.com/solepos/backend/internal/application/billing"
	appcatalog "github.com/solepos/backend/internal/application/catalog"
	"github.com/solepos/backend/internal/domain/report"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReportService serves profit reports, cached until the next ledger mutation
// or catalog edit
type ReportService struct {
	repo   report.ProfitRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportService creates a new ReportService.
// A nil cache or a zero ttl disables caching.
func NewReportService(repo report.ProfitRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// CustomerProfit ranks named customers by profit
func (s *ReportService) CustomerProfit(ctx context.Context, filter ReportFilter) ([]report.CustomerProfit, error) {
	return cached(ctx, s, "customer", filter, s.repo.CustomerProfit)
}

// ProductProfit ranks products by profit
func (s *ReportService) ProductProfit(ctx context.Context, filter ReportFilter) ([]report.ProductProfit, error) {
	return cached(ctx, s, "product", filter, s.repo.ProductProfit)
}

// CategoryProfit ranks categories by profit
func (s *ReportService) CategoryProfit(ctx context.Context, filter ReportFilter) ([]report.CategoryProfit, error) {
	return cached(ctx, s, "category", filter, s.repo.CategoryProfit)
}

// DailyProfit buckets profit by bill day, newest first
func (s *ReportService) DailyProfit(ctx context.Context, filter ReportFilter) ([]report.PeriodProfit, error) {
	return cached(ctx, s, "daily", filter, func(ctx context.Context, q report.Query) ([]report.PeriodProfit, error) {
		return s.repo.PeriodProfit(ctx, report.GranularityDay, q)
	})
}

// MonthlyProfit buckets profit by bill month, newest first
func (s *ReportService) MonthlyProfit(ctx context.Context, filter ReportFilter) ([]report.PeriodProfit, error) {
	return cached(ctx, s, "monthly", filter, func(ctx context.Context, q report.Query) ([]report.PeriodProfit, error) {
		return s.repo.PeriodProfit(ctx, report.GranularityMonth, q)
	})
}

// OnLedgerEvent invalidates every cached report
func (s *ReportService) OnLedgerEvent(ctx context.Context, event appbilling.LedgerEvent) {
	s.invalidate(ctx, string(event.Kind))
}

// OnCatalogChange invalidates every cached report. Product and category
// reports carry brand, product and category names.
func (s *ReportService) OnCatalogChange(ctx context.Context, change appcatalog.Change) {
	s.invalidate(ctx, string(change.Kind))
}

func (s *ReportService) invalidate(ctx context.Context, reason string) {
	if s.cache == nil {
		return
	}
	gen, err := s.cache.BumpGeneration(ctx)
	if err != nil {
		logger.L(ctx, s.logger).Warn("Report cache invalidation failed",
			zap.String("event", reason), zap.Error(err))
		return
	}
	logger.L(ctx, s.logger).Debug("Report cache invalidated",
		zap.String("event", reason), zap.Int64("generation", gen))
}

// cached serves a report from the cache or computes and stores it.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *ReportService, name string, filter ReportFilter, compute func(context.Context, report.Query) ([]T, error)) ([]T, error) {
	q, err := filter.query()
	if err != nil {
		return nil, err
	}
	if s.cache == nil || s.ttl <= 0 {
		return compute(ctx, q)
	}

	log := logger.L(ctx, s.logger).With(zap.String("report", name))

	gen, err := s.cache.Generation(ctx)
	if err != nil {
		log.Warn("Report cache unavailable", zap.Error(err))
		return compute(ctx, q)
	}
	key := fmt.Sprintf("%d:%s:%s", gen, name, filter.cacheKey())

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn("Report cache read failed", zap.Error(err))
	} else if ok {
		var rows []T
		if err := json.Unmarshal(raw, &rows); err == nil {
			return rows, nil
		}
		log.Warn("Discarding undecodable cached report", zap.String("key", key))
	}

	rows, err := compute(ctx, q)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
			log.Warn("Report cache write failed", zap.Error(err))
		}
	}
	return rows, nil
}

// Ensure ReportService can be registered as a ledger listener
var _ appbilling.Listener = (*ReportService)(nil)
