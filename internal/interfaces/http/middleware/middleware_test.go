package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solepos/backend/internal/infrastructure/auth"
	"github.com/solepos/backend/internal/infrastructure/config"
	"github.com/solepos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generates when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "till-7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "till-7", w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://till.local"}
	r := gin.New()
	r.Use(CORSWithConfig(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://till.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://till.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://till.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
}

func TestSecure(t *testing.T) {
	r := gin.New()
	r.Use(Secure(false))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(strings.Repeat("a", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, decode(t, w).Error.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)
}

type sizeRequest struct {
	Size     string `json:"size" binding:"required,shoe_size"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()
	SetupValidator()

	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req sizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"size":"9","quantity":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"size":"   ","quantity":0}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid shoe size", fields["size"])
	assert.Equal(t, "This field is required", fields["quantity"])
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "pos-test",
		MaxRefreshCount:        3,
	})
}

func TestJWTAuth(t *testing.T) {
	svc := newJWTService()
	store := auth.NewRevocationStore(nil)
	adminID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{AdminID: adminID, Username: "counter"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{
		JWTService:  svc,
		Revocations: store,
		SkipPaths:   []string{"/open"},
	}))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/me", func(c *gin.Context) {
		id, ok := GetJWTAdminID(c)
		require.True(t, ok)
		require.NotNil(t, GetJWTClaims(c))
		c.String(http.StatusOK, id.String())
	})

	call := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set(AuthHeaderKey, header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("/open", "").Code)

	w := call("/me", BearerPrefix+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminID.String(), w.Body.String())

	w = call("/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID", decode(t, w).Error.Code)

	w = call("/me", "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call("/me", BearerPrefix+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_INVALID_TYPE", decode(t, w).Error.Code)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, store.RevokeToken(context.Background(), claims.ID, time.Minute))

	w = call("/me", BearerPrefix+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "TOKEN_REVOKED", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, retry := limiter.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = limiter.Allow("5.6.7.8")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.True(t, ok)
}

func TestRateLimiter_Middleware(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1, time.Minute).Middleware())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	r.GET("/bills/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bills/"+uuid.NewString(), nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value("http.route")
				assert.Equal(t, "/bills/:id", route.AsString())
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(3), total)
}

func TestTracing_Disabled(t *testing.T) {
	r := gin.New()
	assert.Empty(t, Tracing("pos-test", false))
	r.Use(Tracing("pos-test", false)...)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestTracing_TagsServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(RequestID())
	r.Use(Tracing("pos-test", true)...)
	r.GET("/boom", func(c *gin.Context) {
		c.Set(JWTUserIDKey, "admin-1")
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := map[attribute.Key]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.NotEmpty(t, attrs["request_id"])
	assert.Equal(t, "admin-1", attrs["admin_id"])
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
