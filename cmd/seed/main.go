package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	appcatalog "github.com/solepos/backend/internal/application/catalog"
	"github.com/solepos/backend/internal/application/identity"
	"github.com/solepos/backend/internal/application/seed"
	"github.com/solepos/backend/internal/infrastructure/auth"
	"github.com/solepos/backend/internal/infrastructure/config"
	"github.com/solepos/backend/internal/infrastructure/logger"
	"github.com/solepos/backend/internal/infrastructure/migration"
	"github.com/solepos/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		products int
		randSeed uint64
		migrate  bool
	)
	flag.IntVar(&products, "products", 0, "Number of demo products to generate")
	flag.Uint64Var(&randSeed, "rand-seed", 0, "Seed for generated products (0 = random)")
	flag.BoolVar(&migrate, "migrate", true, "Apply pending migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel("warn")))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if migrate {
		m, err := migration.New(db.SQL(), cfg.Database.MigrationsPath, log)
		if err != nil {
			log.Fatal("Failed to prepare migrations", zap.Error(err))
		}
		if err := m.Up(); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	brandRepo := persistence.NewGormBrandRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	authService := identity.NewAuthService(
		persistence.NewGormAdminRepository(db.DB),
		auth.NewJWTService(cfg.JWT),
		auth.NewRevocationStore(nil),
		log,
	)
	seeder := seed.NewSeeder(
		appcatalog.NewBrandService(brandRepo),
		appcatalog.NewCategoryService(categoryRepo),
		appcatalog.NewProductService(persistence.NewGormTransactionScope(db.DB), productRepo, brandRepo, categoryRepo, log),
		authService,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := seeder.Run(ctx, seed.Options{
		AdminUsername: cfg.Seed.AdminUsername,
		AdminPassword: cfg.Seed.AdminPassword,
		Products:      products,
		RandSeed:      randSeed,
	}); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}
}
