package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/application/billing"
	"github.com/solepos/backend/internal/interfaces/http/middleware"
)

// BillHandler exposes the billing ledger
type BillHandler struct {
	BaseHandler
	billService *billing.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *billing.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create godoc
// @Summary      Create bill
// @Description  Record a sale and decrement stock for every line, atomically
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBillBody true "Bill with line items"
// @Success      201 {object} dto.Response{data=billing.BillResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills [post]
func (h *BillHandler) Create(c *gin.Context) {
	var body CreateBillBody
	if !h.bindJSON(c, &body) {
		return
	}
	req := body.toRequest()
	if adminID, ok := middleware.GetJWTAdminID(c); ok {
		req.CreatedBy = &adminID
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// List godoc
// @Summary      List bills
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Bill number or customer name"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]billing.BillResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	var filter billing.BillListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.billService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Bill ID"
// @Success      200 {object} dto.Response{data=billing.BillResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/{id} [get]
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// ReturnItem godoc
// @Summary      Return line item
// @Description  Mark a sold line as returned and put its quantity back in stock
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        itemId path string true "Bill item ID"
// @Success      200 {object} dto.Response{data=billing.BillResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/items/{itemId}/return [post]
func (h *BillHandler) ReturnItem(c *gin.Context) {
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}

	bill, err := h.billService.ReturnLineItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// ReplaceItem godoc
// @Summary      Replace line item
// @Description  Return a sold line and sell a replacement on the same bill
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId path string true "Bill item ID"
// @Param        request body BillItemBody true "Replacement line"
// @Success      200 {object} dto.Response{data=billing.BillResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /bills/items/{itemId}/replace [post]
func (h *BillHandler) ReplaceItem(c *gin.Context) {
	itemID, ok := h.uuidParam(c, "itemId")
	if !ok {
		return
	}
	var body BillItemBody
	if !h.bindJSON(c, &body) {
		return
	}

	bill, err := h.billService.ReplaceLineItem(c.Request.Context(), itemID, body.toRequest())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}
