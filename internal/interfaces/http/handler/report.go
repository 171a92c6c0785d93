package handler

import (
	"fmt"
	"net/http"

	"github.com/agentdesk/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles the read-only bill reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *report.BillReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *report.BillReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/bills/statistics", h.Statistics)
		reports.GET("/bills/detailed", h.Detailed)
		reports.GET("/bills/export", h.Export)
	}
}

// Statistics groups one month's bills by status
func (h *ReportHandler) Statistics(c *gin.Context) {
	billMonth := c.Query("bill_month")
	if billMonth == "" {
		h.BadRequest(c, "bill_month is required")
		return
	}

	stats, err := h.reportService.GetBillStatistics(c.Request.Context(), billMonth)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Detailed lists one month's bills with agent identity resolved
func (h *ReportHandler) Detailed(c *gin.Context) {
	var filter report.DetailedReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, err := h.reportService.GetDetailedBillReport(c.Request.Context(), &filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Export downloads the detailed report as a CSV attachment
func (h *ReportHandler) Export(c *gin.Context) {
	var filter report.DetailedReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	rows, err := h.reportService.GetDetailedBillReport(c.Request.Context(), &filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := report.BuildBillReportCSV(filter.BillMonth, rows)
	if err != nil {
		h.InternalError(c, "failed to build report export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
