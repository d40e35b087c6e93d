package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/solepos/backend/internal/application/report"
)

// ReportHandler serves the profit reports
type ReportHandler struct {
	BaseHandler
	reportService *report.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// serveReport binds the date filter and answers with whatever run returns
func serveReport[T any](h *ReportHandler, c *gin.Context, run func(context.Context, report.ReportFilter) ([]T, error)) {
	var filter report.ReportFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rows, err := run(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// CustomerProfit godoc
// @Summary      Profit by customer
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]report.CustomerProfit}
// @Router       /reports/customer-profit [get]
func (h *ReportHandler) CustomerProfit(c *gin.Context) {
	serveReport(h, c, h.reportService.CustomerProfit)
}

// ProductProfit godoc
// @Summary      Profit by product
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]report.ProductProfit}
// @Router       /reports/product-profit [get]
func (h *ReportHandler) ProductProfit(c *gin.Context) {
	serveReport(h, c, h.reportService.ProductProfit)
}

// CategoryProfit godoc
// @Summary      Profit by category
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]report.CategoryProfit}
// @Router       /reports/category-profit [get]
func (h *ReportHandler) CategoryProfit(c *gin.Context) {
	serveReport(h, c, h.reportService.CategoryProfit)
}

// DailyProfit godoc
// @Summary      Profit per day
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]report.PeriodProfit}
// @Router       /reports/daily-profit [get]
func (h *ReportHandler) DailyProfit(c *gin.Context) {
	serveReport(h, c, h.reportService.DailyProfit)
}

// MonthlyProfit godoc
// @Summary      Profit per month
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]report.PeriodProfit}
// @Router       /reports/monthly-profit [get]
func (h *ReportHandler) MonthlyProfit(c *gin.Context) {
	serveReport(h, c, h.reportService.MonthlyProfit)
}
