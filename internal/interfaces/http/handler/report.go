package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/retailpos/backend/internal/application/report"
)

// ReportHandler serves the sales dashboard
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// SalesReport godoc
// @Summary      Sales report
// @Description  Totals, payment split, refunds, top products and the sale list for a period.
// @Description  filter is one of today, yesterday, last_7_days, last_30_days or custom (with start_date and end_date).
// @Tags         reports
// @Security     BearerAuth
// @Router       /reports [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	var filter reportapp.SalesReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
