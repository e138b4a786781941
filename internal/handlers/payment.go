package handlers

import (
	"context"
	"errors"
	"log"

	"agristore/internal/models"
	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles UPI payment-intent requests
type PaymentHandler struct {
	payments *services.PaymentService
	settings *services.SettingsService
	invoices *services.InvoiceService
	email    *services.EmailService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService, settings *services.SettingsService,
	invoices *services.InvoiceService, email *services.EmailService) *PaymentHandler {
	return &PaymentHandler{payments: payments, settings: settings, invoices: invoices, email: email}
}

// CreatePayment creates a pending payment intent with UPI link and QR code.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req models.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	intent, err := h.payments.CreatePayment(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    intent,
	})
}

// ConfirmPayment records the UTR and marks the transaction paid. The invoice
// email goes out in the background so a slow SMTP server never blocks the
// response.
func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req models.ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if req.TransactionID == "" || req.UTR == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "transaction_id and utr are required",
		})
	}

	tx, err := h.payments.ConfirmPayment(c.Context(), &req)
	if errors.Is(err, services.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Transaction not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to confirm payment",
		})
	}

	if h.email != nil && h.email.Enabled() {
		go h.sendInvoiceEmail(tx)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    tx,
	})
}

// GetTransaction returns the bare transaction record by its public id.
func (h *PaymentHandler) GetTransaction(c *fiber.Ctx) error {
	tx, err := h.payments.GetTransaction(c.Context(), c.Params("id"))
	if errors.Is(err, services.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Transaction not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load transaction",
		})
	}
	return c.JSON(tx)
}

func (h *PaymentHandler) sendInvoiceEmail(tx *models.Transaction) {
	settings, err := h.settings.Get(context.Background())
	if err != nil {
		log.Printf("⚠️  [EMAIL] Could not load settings for invoice %s: %v", tx.InvoiceID, err)
		return
	}

	pdf, err := h.invoices.BuildPDF(tx, settings)
	if err != nil {
		log.Printf("⚠️  [EMAIL] Could not build invoice %s: %v", tx.InvoiceID, err)
		return
	}

	if err := h.email.SendInvoice(tx, settings, pdf); err != nil {
		log.Printf("⚠️  [EMAIL] Could not send invoice %s: %v", tx.InvoiceID, err)
	}
}
