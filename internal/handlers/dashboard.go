package handlers

import (
	"fmt"
	"log"
	"time"

	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles admin reporting requests
type DashboardHandler struct {
	reports *services.ReportService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reports *services.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// Stats returns transaction totals and recent activity.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reports.Dashboard(c.Context())
	if err != nil {
		log.Printf("❌ [DASHBOARD] Stats failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load dashboard",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// Export streams all transactions as an XLSX workbook.
func (h *DashboardHandler) Export(c *fiber.Ctx) error {
	workbook, err := h.reports.ExportXLSX(c.Context())
	if err != nil {
		log.Printf("❌ [DASHBOARD] Export failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to export transactions",
		})
	}

	filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(workbook)
}
