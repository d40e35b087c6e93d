package router

import (
	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/interfaces/http/handler"
)

// Handlers bundles every API handler
type Handlers struct {
	Auth     *handler.AuthHandler
	Bills    *handler.BillHandler
	Catalog  *handler.CatalogHandler
	Products *handler.ProductHandler
	Stock    *handler.StockHandler
	Reports  *handler.ReportHandler
}

// PublicPaths lists the API routes reachable without a token
func PublicPaths(basePath string) []string {
	return []string{
		basePath + "/auth/login",
		basePath + "/auth/refresh",
	}
}

// APIGroups lays out the API. loginLimit, when non-nil, guards the login route.
func APIGroups(h Handlers, loginLimit gin.HandlerFunc) []RouteRegistrar {
	login := []gin.HandlerFunc{h.Auth.Login}
	if loginLimit != nil {
		login = append([]gin.HandlerFunc{loginLimit}, login...)
	}

	authGroup := NewRouteGroup("/auth").
		POST("/login", login...).
		POST("/refresh", h.Auth.Refresh).
		GET("/me", h.Auth.Me).
		POST("/logout", h.Auth.Logout)

	bills := NewRouteGroup("/bills").
		GET("", h.Bills.List).
		POST("", h.Bills.Create).
		GET("/:id", h.Bills.Get).
		POST("/items/:itemId/return", h.Bills.ReturnItem).
		POST("/items/:itemId/replace", h.Bills.ReplaceItem)

	catalog := NewRouteGroup("/catalog").
		GET("/brands", h.Catalog.ListBrands).
		POST("/brands", h.Catalog.CreateBrand).
		PUT("/brands/:id", h.Catalog.UpdateBrand).
		DELETE("/brands/:id", h.Catalog.DeleteBrand).
		GET("/categories", h.Catalog.ListCategories).
		POST("/categories", h.Catalog.CreateCategory).
		GET("/products", h.Products.List).
		POST("/products", h.Products.Create).
		GET("/products/:id", h.Products.Get).
		PUT("/products/:id", h.Products.Update).
		DELETE("/products/:id", h.Products.Delete)

	stock := NewRouteGroup("/stock").
		PUT("", h.Stock.Set).
		POST("/adjust", h.Stock.Adjust).
		GET("/low", h.Stock.Low)

	reports := NewRouteGroup("/reports").
		GET("/customer-profit", h.Reports.CustomerProfit).
		GET("/product-profit", h.Reports.ProductProfit).
		GET("/category-profit", h.Reports.CategoryProfit).
		GET("/daily-profit", h.Reports.DailyProfit).
		GET("/monthly-profit", h.Reports.MonthlyProfit)

	return []RouteRegistrar{authGroup, bills, catalog, stock, reports}
}
