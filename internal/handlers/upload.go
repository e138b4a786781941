package handlers

import (
	"encoding/base64"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Images only, and small enough to inline as a data URL.
const maxUploadBytes = 5 * 1024 * 1024

var allowedUploadTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadHandler converts uploaded images into data URLs for the image slots
type UploadHandler struct{}

// NewUploadHandler creates a new upload handler
func NewUploadHandler() *UploadHandler {
	return &UploadHandler{}
}

// Handle accepts a multipart image and returns it as a data URL.
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "file field is required",
		})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"success": false,
			"error":   "File exceeds the 5MB limit",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"success": false,
			"error":   "Only PNG, JPEG, WebP and GIF images are accepted",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read upload",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read upload",
		})
	}

	log.Printf("✅ [UPLOAD] Received %s (%d bytes)", fileHeader.Filename, len(data))
	return c.JSON(fiber.Map{
		"success": true,
		"url":     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
	})
}
