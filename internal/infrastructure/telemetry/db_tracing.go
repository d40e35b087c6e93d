package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/solepos/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// InstrumentDB registers otelgorm plus callbacks that annotate each query
// span with the affected table, row count and a slow_query flag.
func InstrumentDB(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(db.Dialector.Name())}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	after := annotateSpan(slow)
	cb := db.Callback()
	if err := errors.Join(
		cb.Create().Before("gorm:create").Register("pos_timing:before_create", markQueryStart),
		cb.Create().After("gorm:create").Register("pos_timing:after_create", after),
		cb.Query().Before("gorm:query").Register("pos_timing:before_query", markQueryStart),
		cb.Query().After("gorm:query").Register("pos_timing:after_query", after),
		cb.Update().Before("gorm:update").Register("pos_timing:before_update", markQueryStart),
		cb.Update().After("gorm:update").Register("pos_timing:after_update", after),
		cb.Delete().Before("gorm:delete").Register("pos_timing:before_delete", markQueryStart),
		cb.Delete().After("gorm:delete").Register("pos_timing:after_delete", after),
		cb.Row().Before("gorm:row").Register("pos_timing:before_row", markQueryStart),
		cb.Row().After("gorm:row").Register("pos_timing:after_row", after),
		cb.Raw().Before("gorm:raw").Register("pos_timing:before_raw", markQueryStart),
		cb.Raw().After("gorm:raw").Register("pos_timing:after_raw", after),
	); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", slow),
	)
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func annotateSpan(slow time.Duration) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
		if db.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
		}
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}
		if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
			if elapsed := time.Since(start); elapsed > slow {
				span.SetAttributes(
					attribute.Bool("db.slow_query", true),
					attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
				)
			}
		}
	}
}
