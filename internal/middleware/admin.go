package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"agristore/pkg/auth"
)

// AdminOnly guards mutating storefront routes with a JWT check. When jwtAuth
// is nil admin auth is not configured and the routes stay open, matching
// single-operator deployments without an admin account.
func AdminOnly(jwtAuth *auth.LocalJWTAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtAuth == nil {
			return c.Next()
		}

		token, err := auth.ExtractToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization required",
			})
		}

		admin, err := jwtAuth.VerifyToken(token)
		if err != nil {
			log.Printf("⚠️  [AUTH] Rejected admin token: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired token",
			})
		}

		c.Locals("admin_email", admin.Email)
		return c.Next()
	}
}
