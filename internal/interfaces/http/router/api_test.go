package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appbilling "github.com/solepos/backend/internal/application/billing"
	appcatalog "github.com/solepos/backend/internal/application/catalog"
	"github.com/solepos/backend/internal/application/identity"
	"github.com/solepos/backend/internal/application/report"
	"github.com/solepos/backend/internal/infrastructure/auth"
	"github.com/solepos/backend/internal/infrastructure/cache"
	"github.com/solepos/backend/internal/infrastructure/config"
	"github.com/solepos/backend/internal/infrastructure/persistence"
	"github.com/solepos/backend/internal/infrastructure/persistence/models"
	"github.com/solepos/backend/internal/interfaces/http/dto"
	"github.com/solepos/backend/internal/interfaces/http/handler"
	"github.com/solepos/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

type testAPI struct {
	engine *gin.Engine
	token  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	middleware.SetupValidator()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	txScope := persistence.NewGormTransactionScope(db)
	brandRepo := persistence.NewGormBrandRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	stockRepo := persistence.NewGormStockRepository(db)

	reportCache := cache.NewInMemoryReportCache()
	t.Cleanup(func() { _ = reportCache.Close() })
	reportService := report.NewReportService(persistence.NewGormProfitRepository(db), reportCache, time.Minute, log)

	billService := appbilling.NewBillService(txScope, persistence.NewGormBillRepository(db), log)
	billService.AddListener(reportService)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "api-test-secret-key-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "pos-test",
		MaxRefreshCount:        5,
	})
	revocations := auth.NewRevocationStore(nil)
	authService := identity.NewAuthService(persistence.NewGormAdminRepository(db), jwtService, revocations, log)
	created, err := authService.EnsureAdmin(context.Background(), "admin", "secret123")
	require.NoError(t, err)
	require.True(t, created)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", handler.NewHealthHandler(sqlDB, "test").Health)

	jwt := middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService:  jwtService,
		Revocations: revocations,
		SkipPaths:   PublicPaths("/api/v1"),
	})
	r := NewRouter(engine, WithMiddleware(jwt))
	r.Register(APIGroups(Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Bills:    handler.NewBillHandler(billService),
		Catalog:  handler.NewCatalogHandler(appcatalog.NewBrandService(brandRepo), appcatalog.NewCategoryService(categoryRepo)),
		Products: handler.NewProductHandler(appcatalog.NewProductService(txScope, productRepo, brandRepo, categoryRepo, log)),
		Stock:    handler.NewStockHandler(appcatalog.NewStockService(stockRepo, productRepo, 5, log)),
		Reports:  handler.NewReportHandler(reportService),
	}, middleware.NewRateLimiter(100, time.Minute).Middleware())...)
	r.Setup()

	api := &testAPI{engine: engine}
	resp := api.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "secret123"}, http.StatusOK)
	var login identity.LoginResponse
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	api.token = login.AccessToken
	return api
}

// do sends body as JSON with the admin token and checks the status
func (a *testAPI) do(t *testing.T, method, path string, body any, expected int) envelope {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	require.Equalf(t, expected, w.Code, "%s %s: %s", method, path, w.Body.String())

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return env
}

func (a *testAPI) seedProduct(t *testing.T, size string, qty int) uuid.UUID {
	t.Helper()

	var brand appcatalog.BrandResponse
	require.NoError(t, json.Unmarshal(a.do(t, http.MethodPost, "/api/v1/catalog/brands", map[string]string{"name": "Bata"}, http.StatusCreated).Data, &brand))
	var category appcatalog.CategoryResponse
	require.NoError(t, json.Unmarshal(a.do(t, http.MethodPost, "/api/v1/catalog/categories", map[string]string{"name": "Men"}, http.StatusCreated).Data, &category))

	var product appcatalog.ProductResponse
	env := a.do(t, http.MethodPost, "/api/v1/catalog/products", map[string]any{
		"brand_id":       brand.ID,
		"category_id":    category.ID,
		"name":           "Runner",
		"purchase_price": "600",
		"selling_price":  "1000",
		"gst_percent":    "12",
		"sizes":          []map[string]any{{"size": size, "quantity": qty}},
	}, http.StatusCreated)
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Equal(t, qty, product.TotalStock)
	return product.ID
}

func billBody(number string, productID uuid.UUID, size string, qty int) map[string]any {
	total := decimal.NewFromInt(int64(1000 * qty))
	return map[string]any{
		"bill_number":   number,
		"subtotal":      total.String(),
		"total_amount":  total.String(),
		"customer_name": "Asha",
		"items": []map[string]any{{
			"product_id":     productID,
			"size":           size,
			"quantity":       qty,
			"price":          "1000",
			"mrp":            "1000",
			"purchase_price": "600",
			"total":          total.String(),
		}},
	}
}

func (a *testAPI) stockOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var product appcatalog.ProductResponse
	require.NoError(t, json.Unmarshal(a.do(t, http.MethodGet, "/api/v1/catalog/products/"+productID.String(), nil, http.StatusOK).Data, &product))
	return product.TotalStock
}

func TestAPI_RequiresToken(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	env := api.do(t, http.MethodGet, "/api/v1/bills", nil, http.StatusUnauthorized)
	assert.False(t, env.Success)
	assert.Equal(t, "TOKEN_INVALID", env.Error.Code)

	api.do(t, http.MethodGet, "/health", nil, http.StatusOK)
}

func TestAPI_LoginRejectsBadPassword(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""

	env := api.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin", "password": "wrong-password"}, http.StatusUnauthorized)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestAPI_BillLifecycle(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedProduct(t, "8", 5)

	var bill appbilling.BillResponse
	env := api.do(t, http.MethodPost, "/api/v1/bills", billBody("B-100", productID, "8", 2), http.StatusCreated)
	require.NoError(t, json.Unmarshal(env.Data, &bill))
	require.Len(t, bill.Items, 1)
	assert.NotNil(t, bill.CreatedBy)
	assert.Equal(t, 3, api.stockOf(t, productID))

	// duplicate number
	env = api.do(t, http.MethodPost, "/api/v1/bills", billBody("B-100", productID, "8", 1), http.StatusConflict)
	assert.Equal(t, "DUPLICATE_BILL_NUMBER", env.Error.Code)

	// more than in stock
	env = api.do(t, http.MethodPost, "/api/v1/bills", billBody("B-101", productID, "8", 9), http.StatusUnprocessableEntity)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)
	assert.Equal(t, 3, api.stockOf(t, productID))

	env = api.do(t, http.MethodGet, "/api/v1/bills?search=B-100", nil, http.StatusOK)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	api.do(t, http.MethodGet, "/api/v1/bills/"+bill.ID.String(), nil, http.StatusOK)

	itemPath := "/api/v1/bills/items/" + bill.Items[0].ID.String()
	var returned appbilling.BillResponse
	require.NoError(t, json.Unmarshal(api.do(t, http.MethodPost, itemPath+"/return", nil, http.StatusOK).Data, &returned))
	assert.True(t, returned.TotalAmount.IsZero())
	assert.Equal(t, 5, api.stockOf(t, productID))

	env = api.do(t, http.MethodPost, itemPath+"/return", nil, http.StatusConflict)
	assert.Equal(t, "ALREADY_RETURNED", env.Error.Code)
}

func TestAPI_ReplaceItem(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedProduct(t, "8", 5)
	api.do(t, http.MethodPut, "/api/v1/stock", map[string]any{"product_id": productID, "size": "9", "quantity": 1}, http.StatusOK)

	var bill appbilling.BillResponse
	require.NoError(t, json.Unmarshal(api.do(t, http.MethodPost, "/api/v1/bills", billBody("B-200", productID, "8", 1), http.StatusCreated).Data, &bill))
	itemPath := "/api/v1/bills/items/" + bill.Items[0].ID.String() + "/replace"

	replacement := map[string]any{
		"product_id": productID, "size": "9", "quantity": 2, "price": "1000", "total": "2000",
	}
	env := api.do(t, http.MethodPost, itemPath, replacement, http.StatusUnprocessableEntity)
	assert.Equal(t, "INSUFFICIENT_STOCK_FOR_REPLACEMENT", env.Error.Code)

	replacement["quantity"] = 1
	replacement["total"] = "1000"
	var replaced appbilling.BillResponse
	require.NoError(t, json.Unmarshal(api.do(t, http.MethodPost, itemPath, replacement, http.StatusOK).Data, &replaced))
	require.Len(t, replaced.Items, 2)
	assert.Equal(t, 5, api.stockOf(t, productID))
}

func TestAPI_Validation(t *testing.T) {
	api := newTestAPI(t)

	env := api.do(t, http.MethodPost, "/api/v1/bills", map[string]any{"bill_number": "B-1", "items": []any{}}, http.StatusBadRequest)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	assert.NotEmpty(t, env.Error.Details)

	env = api.do(t, http.MethodPost, "/api/v1/catalog/brands", map[string]string{"name": "X"}, http.StatusBadRequest)
	assert.Equal(t, "name", env.Error.Details[0].Field)

	env = api.do(t, http.MethodGet, "/api/v1/bills/not-a-uuid", nil, http.StatusBadRequest)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	api.do(t, http.MethodGet, "/api/v1/bills/"+uuid.NewString(), nil, http.StatusNotFound)
	api.do(t, http.MethodGet, "/api/v1/reports/daily-profit?from=yesterday", nil, http.StatusBadRequest)
}

func TestAPI_StockAndReports(t *testing.T) {
	api := newTestAPI(t)
	productID := api.seedProduct(t, "8", 3)

	var low []appcatalog.LowStockResponse
	require.NoError(t, json.Unmarshal(api.do(t, http.MethodGet, "/api/v1/stock/low", nil, http.StatusOK).Data, &low))
	require.Len(t, low, 1)
	assert.Equal(t, "Bata", low[0].BrandName)

	api.do(t, http.MethodPost, "/api/v1/stock/adjust", map[string]any{"product_id": productID, "size": "8", "delta": 7}, http.StatusOK)
	require.NoError(t, json.Unmarshal(api.do(t, http.MethodGet, "/api/v1/stock/low", nil, http.StatusOK).Data, &low))
	assert.Empty(t, low)

	api.do(t, http.MethodPost, "/api/v1/bills", billBody("B-300", productID, "8", 2), http.StatusCreated)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(api.do(t, http.MethodGet, "/api/v1/reports/customer-profit", nil, http.StatusOK).Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0]["customer_name"])

	for _, path := range []string{"product-profit", "category-profit", "daily-profit", "monthly-profit"} {
		api.do(t, http.MethodGet, "/api/v1/reports/"+path, nil, http.StatusOK)
	}
}

func TestAPI_Logout(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodGet, "/api/v1/auth/me", nil, http.StatusOK)
	api.do(t, http.MethodPost, "/api/v1/auth/logout", nil, http.StatusNoContent)

	env := api.do(t, http.MethodGet, "/api/v1/auth/me", nil, http.StatusUnauthorized)
	assert.Equal(t, "TOKEN_REVOKED", env.Error.Code)
}
