package handler

import (
	"time"

	"github.com/brechoria/brecho-api/internal/application/service"
	"github.com/brechoria/brecho-api/internal/domain/enum"
	"github.com/brechoria/brecho-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// dateRange reads from/to query parameters, defaulting to the last 30 days
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return from, to, false
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return from, to, false
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, true
}

// Sales returns the daily sales summary for a date range
// @Summary Sales report
// @Description Daily totals of orders, revenue and discounts
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.reportService.SalesReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report", gin.H{"days": rows})
}

// Inventory returns piece counts per status
func (h *ReportHandler) Inventory(c *gin.Context) {
	rows, err := h.reportService.InventoryReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory report", gin.H{"statuses": rows})
}

// Payables returns everyone the store currently owes
func (h *ReportHandler) Payables(c *gin.Context) {
	personType := enum.PersonSupplier
	if c.Query("person_type") == "customer" {
		personType = enum.PersonCustomer
	}

	rows, err := h.reportService.PayablesReport(c.Request.Context(), personType)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payables report", gin.H{"payables": rows})
}
