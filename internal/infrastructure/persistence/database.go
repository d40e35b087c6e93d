package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/solepos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database pairs the GORM handle with its pooled *sql.DB
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabase opens PostgreSQL with GORM logging silenced
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithCustomLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithCustomLogger opens PostgreSQL, sizes the pool from cfg and
// verifies the connection before returning.
func NewDatabaseWithCustomLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d, err := wrap(db)
	if err != nil {
		return nil, err
	}
	d.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	d.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	d.sql.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	d.sql.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

func wrap(db *gorm.DB) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return &Database{DB: db, sql: sqlDB}, nil
}

// SQL returns the pooled connection used by migrations and health checks
func (d *Database) SQL() *sql.DB {
	return d.sql
}

// PingContext checks the connection is alive
func (d *Database) PingContext(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// LogPoolStats writes the connection pool counters
func (d *Database) LogPoolStats(log *zap.Logger) {
	s := d.sql.Stats()
	log.Info("Database pool",
		zap.Int("max_open", s.MaxOpenConnections),
		zap.Int("open", s.OpenConnections),
		zap.Int("in_use", s.InUse),
		zap.Int("idle", s.Idle),
		zap.Int64("wait_count", s.WaitCount),
		zap.Duration("wait_duration", s.WaitDuration),
	)
}

// Close closes the pool
func (d *Database) Close() error {
	return d.sql.Close()
}
