package cache

import (
	"github.com/redis/go-redis/v9"
	"github.com/solepos/backend/internal/application/report"
	"go.uber.org/zap"
)

// NewReportCache returns a Redis-backed cache when a client is available and
// falls back to an in-process cache otherwise
func NewReportCache(client *redis.Client, logger *zap.Logger) report.Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if client != nil {
		logger.Info("using Redis report cache")
		return NewRedisReportCache(client, "")
	}
	logger.Warn("Redis unavailable, falling back to in-memory report cache. " +
		"Instances will not share cached reports.")
	return NewInMemoryReportCache()
}
