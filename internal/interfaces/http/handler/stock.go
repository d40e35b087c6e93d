package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/application/catalog"
)

// StockHandler manages per-size stock levels
type StockHandler struct {
	BaseHandler
	stockService *catalog.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *catalog.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

type lowStockQuery struct {
	Threshold int `form:"threshold" binding:"omitempty,min=0"`
}

// Set godoc
// @Summary      Set stock
// @Description  Set the absolute quantity of one size, creating the row if needed
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.SetStockRequest true "Stock level"
// @Success      200 {object} dto.Response{data=catalog.StockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock [put]
func (h *StockHandler) Set(c *gin.Context) {
	var req catalog.SetStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	stock, err := h.stockService.Set(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Add a positive or negative delta to one size
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.AdjustStockRequest true "Stock delta"
// @Success      200 {object} dto.Response{data=catalog.StockResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req catalog.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	stock, err := h.stockService.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Low godoc
// @Summary      Low stock
// @Description  Sizes at or below the threshold with product and brand names
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        threshold query int false "Threshold" default(5)
// @Success      200 {object} dto.Response{data=[]catalog.LowStockResponse}
// @Router       /stock/low [get]
func (h *StockHandler) Low(c *gin.Context) {
	var q lowStockQuery
	if !h.bindQuery(c, &q) {
		return
	}

	items, err := h.stockService.Low(c.Request.Context(), q.Threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
