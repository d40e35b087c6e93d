// Package seed fills an empty store with the default catalog, an admin
// account and optionally a batch of generated demo products.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	appcatalog "github.com/solepos/backend/internal/application/catalog"
	"github.com/solepos/backend/internal/application/identity"
	"github.com/solepos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultBrands are created when missing
var DefaultBrands = []string{"Nike", "Adidas", "Puma", "Reebok", "Bata"}

var (
	shoeTypes  = []string{"Sneaker", "Runner", "Loafer", "Sandal", "Boot", "Slipper", "Formal"}
	sizeRuns   = [][]string{{"6", "7", "8", "9", "10", "11"}, {"3", "4", "5", "6", "7"}, {"10C", "11C", "12C", "13C", "1", "2"}}
	gstRates   = []string{"5", "12", "18"}
	shopRacks  = []string{"A", "B", "C", "D"}
	sectionFor = map[string]string{"Men": "Men", "Women": "Women", "Kids": "Kids"}
)

// Options controls one seeding run
type Options struct {
	AdminUsername string
	AdminPassword string
	// Products is the number of generated demo products; 0 skips them
	Products int
	// RandSeed makes generated products reproducible; 0 picks a random seed
	RandSeed uint64
}

// Result summarizes what a run created
type Result struct {
	AdminCreated bool
	BrandsAdded  int
	Products     int
}

// Seeder creates reference data through the application services so every
// domain rule applies to seeded rows too.
type Seeder struct {
	brands     *appcatalog.BrandService
	categories *appcatalog.CategoryService
	products   *appcatalog.ProductService
	auth       *identity.AuthService
	logger     *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(
	brands *appcatalog.BrandService,
	categories *appcatalog.CategoryService,
	products *appcatalog.ProductService,
	auth *identity.AuthService,
	logger *zap.Logger,
) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		brands:     brands,
		categories: categories,
		products:   products,
		auth:       auth,
		logger:     logger,
	}
}

// Run is idempotent for categories, brands and the admin. Generated
// products are added on every run.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}

	if err := s.categories.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	added, err := s.ensureBrands(ctx)
	if err != nil {
		return nil, err
	}
	res.BrandsAdded = added

	if opts.AdminUsername != "" {
		created, err := s.auth.EnsureAdmin(ctx, opts.AdminUsername, opts.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		res.AdminCreated = created
	}

	if opts.Products > 0 {
		n, err := s.generateProducts(ctx, opts.Products, opts.RandSeed)
		res.Products = n
		if err != nil {
			return res, err
		}
	}

	s.logger.Info("Seed complete",
		zap.Bool("admin_created", res.AdminCreated),
		zap.Int("brands_added", res.BrandsAdded),
		zap.Int("products", res.Products),
	)
	return res, nil
}

func (s *Seeder) ensureBrands(ctx context.Context) (int, error) {
	added := 0
	for _, name := range DefaultBrands {
		_, err := s.brands.Create(ctx, appcatalog.BrandRequest{Name: name})
		switch {
		case err == nil:
			added++
		case errors.Is(err, shared.ErrAlreadyExists):
		default:
			return added, fmt.Errorf("seed brand %s: %w", name, err)
		}
	}
	return added, nil
}

func (s *Seeder) generateProducts(ctx context.Context, count int, randSeed uint64) (int, error) {
	brands, err := s.brands.List(ctx)
	if err != nil {
		return 0, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(brands) == 0 || len(categories) == 0 {
		return 0, errors.New("seed products: catalog has no brands or categories")
	}

	f := gofakeit.New(randSeed)
	for i := 0; i < count; i++ {
		req := fakeProduct(f, brands[f.Number(0, len(brands)-1)], categories[f.Number(0, len(categories)-1)])
		if _, err := s.products.Create(ctx, req); err != nil {
			return i, fmt.Errorf("seed product %q: %w", req.Name, err)
		}
	}
	return count, nil
}

func fakeProduct(f *gofakeit.Faker, brand appcatalog.BrandResponse, category appcatalog.CategoryResponse) appcatalog.ProductRequest {
	shoeType := f.RandomString(shoeTypes)
	purchase := decimal.NewFromFloat(f.Price(300, 3000)).Round(0)
	// 20-80% markup keeps demo margins positive
	markup := decimal.NewFromInt(int64(f.Number(120, 180))).Div(decimal.NewFromInt(100))

	sizes := sizeRuns[f.Number(0, len(sizeRuns)-1)]
	stock := make([]appcatalog.SizeQuantityRequest, len(sizes))
	for i, size := range sizes {
		stock[i] = appcatalog.SizeQuantityRequest{Size: size, Quantity: f.Number(0, 12)}
	}

	return appcatalog.ProductRequest{
		BrandID:        brand.ID,
		CategoryID:     category.ID,
		Name:           fmt.Sprintf("%s %s %s", brand.Name, capitalize(f.Adjective()), shoeType),
		Article:        fmt.Sprintf("%s-%s", strings.ToUpper(brand.Name[:2]), f.DigitN(5)),
		Type:           shoeType,
		Color:          capitalize(f.SafeColor()),
		Gender:         sectionFor[category.Name],
		Section:        sectionFor[category.Name],
		Rack:           f.RandomString(shopRacks),
		Shelf:          fmt.Sprintf("%d", f.Number(1, 6)),
		PurchasePrice:  purchase,
		SellingPrice:   purchase.Mul(markup).Round(0),
		GSTPercent:     decimal.RequireFromString(f.RandomString(gstRates)),
		IsReadyForSale: true,
		Sizes:          stock,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
