package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/application/catalog"
)

// ProductHandler manages products and their per-size stock
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @Summary      List products
// @Description  Products with brand, category and stock per size
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name, sub brand or article"
// @Param        brand_id query string false "Brand ID"
// @Param        category_id query string false "Category ID"
// @Param        ready_for_sale query bool false "Only products ready for sale"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalog.ProductResponse,meta=dto.Meta}
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalog.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	result, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get product
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create product
// @Description  Create a product with optional opening stock per size
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.ProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body catalog.ProductRequest true "Product"
// @Success      200 {object} dto.Response{data=catalog.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalog.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete product
// @Description  Deletes the product and its stock rows. Bill lines keep their snapshot.
// @Tags         catalog
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
