package handlers

import (
	"fmt"
	"strings"

	"agristore/internal/models"
	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SiteImageHandler handles storefront imagery requests
type SiteImageHandler struct {
	images        *services.SiteImageService
	publicBaseURL string
}

// NewSiteImageHandler creates a new site image handler
func NewSiteImageHandler(images *services.SiteImageService, publicBaseURL string) *SiteImageHandler {
	return &SiteImageHandler{images: images, publicBaseURL: publicBaseURL}
}

// Get returns the image slots with relative paths absolutized against the
// request origin.
func (h *SiteImageHandler) Get(c *fiber.Ctx) error {
	images, err := h.images.Get(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load site images",
		})
	}

	base := h.publicBaseURL
	if base == "" {
		base = fmt.Sprintf("%s://%s", c.Protocol(), c.Hostname())
	}
	images.Logo = absolutize(base, images.Logo)
	images.Hero = absolutize(base, images.Hero)
	images.About = absolutize(base, images.About)
	images.QRCode = absolutize(base, images.QRCode)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    images,
	})
}

// Update applies a partial update to the image slots.
func (h *SiteImageHandler) Update(c *fiber.Ctx) error {
	var input models.SiteImagesInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	images, err := h.images.Update(c.Context(), &input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to update site images",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    images,
	})
}

// absolutize prefixes site-relative paths with the origin. Absolute URLs and
// data URLs pass through untouched.
func absolutize(base, value string) string {
	if value == "" || !strings.HasPrefix(value, "/") {
		return value
	}
	return strings.TrimSuffix(base, "/") + value
}
