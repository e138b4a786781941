package handlers

import (
	"errors"
	"log"

	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// InvoiceHandler serves invoice PDF downloads
type InvoiceHandler struct {
	payments *services.PaymentService
	settings *services.SettingsService
	invoices *services.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(payments *services.PaymentService, settings *services.SettingsService,
	invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{payments: payments, settings: settings, invoices: invoices}
}

// Download renders and returns the invoice PDF for a transaction.
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	invoiceID := c.Params("invoice_id")

	tx, err := h.payments.GetTransactionByInvoice(c.Context(), invoiceID)
	if errors.Is(err, services.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Invoice not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load invoice",
		})
	}

	settings, err := h.settings.Get(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load business settings",
		})
	}

	pdf, err := h.invoices.BuildPDF(tx, settings)
	if err != nil {
		log.Printf("❌ [INVOICE] Render failed for %s: %v", invoiceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to render invoice",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+invoiceID+`.pdf"`)
	return c.Send(pdf)
}
