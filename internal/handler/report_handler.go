package handler

import (
	"time"

	"go-resto-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetDashboardStats returns the admin overview block
// GET /api/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.reportService.GetDashboardStats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetDailySales returns the closing report for one day (today by default)
// GET /api/reportes/ventas-diarias?fecha=2026-01-15
func (h *ReportHandler) GetDailySales(c *fiber.Ctx) error {
	day := time.Now()
	if v := c.Query("fecha"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Fecha inválida, use YYYY-MM-DD"})
		}
		day = parsed
	}

	report, err := h.reportService.GetDailySalesReport(day)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// GetWasteReport groups waste events by reason
// GET /api/reportes/mermas
func (h *ReportHandler) GetWasteReport(c *fiber.Ctx) error {
	report, err := h.reportService.GetWasteReport()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// GetRecipeProfitability lists recipe margins, lowest first
// GET /api/reportes/rentabilidad
func (h *ReportHandler) GetRecipeProfitability(c *fiber.Ctx) error {
	report, err := h.reportService.GetRecipeProfitability()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}
