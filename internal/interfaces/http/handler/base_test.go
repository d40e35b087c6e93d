package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/domain/shared"
	"github.com/solepos/backend/internal/interfaces/http/dto"
	"github.com/solepos/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"item not found", shared.ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
		{"already returned", shared.ErrAlreadyReturned, http.StatusConflict, "ALREADY_RETURNED"},
		{"duplicate bill", shared.ErrDuplicateBillNumber, http.StatusConflict, "DUPLICATE_BILL_NUMBER"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"replacement short", shared.ErrInsufficientStockForReplacement, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK_FOR_REPLACEMENT"},
		{"wrapped domain error", fmt.Errorf("outer: %w", shared.ErrAlreadyExists), http.StatusConflict, "ALREADY_EXISTS"},
		{"invalid size", shared.NewDomainError("INVALID_SIZE", "Size cannot be empty"), http.StatusBadRequest, "INVALID_SIZE"},
		{"transaction failure", shared.NewTransactionFailure(errors.New("conn reset")), http.StatusInternalServerError, "TRANSACTION_FAILED"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")
			c.Set(middleware.RequestIDKey, "req-9")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.Equal(t, "req-9", resp.Error.RequestID)
			assert.NotContains(t, resp.Error.Message, "conn reset")
			assert.NotContains(t, resp.Error.Message, "boom")
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext(http.MethodGet, "/")
		h.HandleError(c, nil)
		assert.Equal(t, 0, w.Body.Len())
	})
}

func TestBaseHandler_UUIDParam(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/bills/x")
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	_, ok := h.uuidParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)

	c, _ = newTestContext(http.MethodGet, "/bills/x")
	c.Params = gin.Params{{Key: "id", Value: "6f1c1a56-8a8e-4c55-9a35-0d3b8d0e6c11"}}
	id, ok := h.uuidParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, "6f1c1a56-8a8e-4c55-9a35-0d3b8d0e6c11", id.String())
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/health")
	NewHealthHandler(fakePinger{}, "1.2.3").Health(c)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "up", data["database"])
	assert.Equal(t, "1.2.3", data["version"])

	c, w = newTestContext(http.MethodGet, "/health")
	NewHealthHandler(fakePinger{err: errors.New("refused")}, "").Health(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	data = decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "down", data["database"])
}
