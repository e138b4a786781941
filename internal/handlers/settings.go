package handlers

import (
	"agristore/internal/models"
	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles business settings requests
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the merchant identity used on invoices and UPI links.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.settings.Get(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load business settings",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    settings,
	})
}

// Update applies a partial update; empty fields keep current values.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var input models.BusinessSettings
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	settings, err := h.settings.Update(c.Context(), &input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update business settings",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    settings,
	})
}
