package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/application/catalog"
)

// CatalogHandler manages brands and categories
type CatalogHandler struct {
	BaseHandler
	brandService    *catalog.BrandService
	categoryService *catalog.CategoryService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(brandService *catalog.BrandService, categoryService *catalog.CategoryService) *CatalogHandler {
	return &CatalogHandler{
		brandService:    brandService,
		categoryService: categoryService,
	}
}

// ListBrands godoc
// @Summary      List brands
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]catalog.BrandResponse}
// @Router       /catalog/brands [get]
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.brandService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brands)
}

// CreateBrand godoc
// @Summary      Create brand
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.BrandRequest true "Brand"
// @Success      201 {object} dto.Response{data=catalog.BrandResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/brands [post]
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req catalog.BrandRequest
	if !h.bindJSON(c, &req) {
		return
	}

	brand, err := h.brandService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, brand)
}

// UpdateBrand godoc
// @Summary      Rename brand
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Brand ID"
// @Param        request body catalog.BrandRequest true "Brand"
// @Success      200 {object} dto.Response{data=catalog.BrandResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/brands/{id} [put]
func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req catalog.BrandRequest
	if !h.bindJSON(c, &req) {
		return
	}

	brand, err := h.brandService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brand)
}

// DeleteBrand godoc
// @Summary      Delete brand
// @Description  Products of the brand keep existing without one
// @Tags         catalog
// @Security     BearerAuth
// @Param        id path string true "Brand ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/brands/{id} [delete]
func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.brandService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListCategories godoc
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]catalog.CategoryResponse}
// @Router       /catalog/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// CreateCategory godoc
// @Summary      Create category
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=catalog.CategoryResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req catalog.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}
