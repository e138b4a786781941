package handlers

import (
	"log"
	"strings"

	"agristore/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles admin login requests
type AuthHandler struct {
	jwtAuth           *auth.LocalJWTAuth // nil when admin auth is not configured
	adminEmail        string
	adminPasswordHash string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(jwtAuth *auth.LocalJWTAuth, adminEmail, adminPasswordHash string) *AuthHandler {
	return &AuthHandler{jwtAuth: jwtAuth, adminEmail: adminEmail, adminPasswordHash: adminPasswordHash}
}

// loginRequest is the admin login payload
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies admin credentials and returns a session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if h.jwtAuth == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Admin authentication is not configured",
		})
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if !strings.EqualFold(req.Email, h.adminEmail) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid credentials",
		})
	}

	ok, err := auth.VerifyPassword(h.adminPasswordHash, req.Password)
	if err != nil {
		log.Printf("❌ [AUTH] Password verification error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Login failed",
		})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid credentials",
		})
	}

	token, err := h.jwtAuth.GenerateToken(h.adminEmail)
	if err != nil {
		log.Printf("❌ [AUTH] Token generation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Login failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"email": h.adminEmail,
		},
	})
}
