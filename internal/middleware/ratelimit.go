package middleware

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	// Global limits (per IP)
	GlobalAPIMax        int
	GlobalAPIExpiration time.Duration

	// Chat endpoint limits (per IP) - each turn may trigger a crawl
	ChatMax        int
	ChatExpiration time.Duration

	// Payment endpoint limits (per IP) - each intent renders a QR code
	PaymentMax        int
	PaymentExpiration time.Duration
}

// DefaultRateLimitConfig returns production-safe defaults
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		// Global: 200/min = ~3.3 req/sec - very generous for normal use
		GlobalAPIMax:        200,
		GlobalAPIExpiration: 1 * time.Minute,

		// Chat: 30/min - a person types slower than this
		ChatMax:        30,
		ChatExpiration: 1 * time.Minute,

		// Payments: 10/min
		PaymentMax:        10,
		PaymentExpiration: 1 * time.Minute,
	}
}

// LoadRateLimitConfig loads config from environment variables with defaults
func LoadRateLimitConfig() *RateLimitConfig {
	config := DefaultRateLimitConfig()

	if v := os.Getenv("RATE_LIMIT_GLOBAL_API"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.GlobalAPIMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_CHAT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.ChatMax = n
		}
	}

	if v := os.Getenv("RATE_LIMIT_PAYMENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.PaymentMax = n
		}
	}

	if os.Getenv("ENVIRONMENT") == "development" {
		config.GlobalAPIMax = 1000
		config.ChatMax = 300
		config.PaymentMax = 100
		log.Println("⚠️  [RATE-LIMIT] Development mode: using relaxed rate limits")
	}

	return config
}

// GlobalAPIRateLimiter creates a rate limiter for all API requests
func GlobalAPIRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.GlobalAPIMax,
		Expiration: config.GlobalAPIExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"error":       "Too many requests. Please slow down.",
				"retry_after": int(config.GlobalAPIExpiration.Seconds()),
			})
		},
		SkipFailedRequests:     false,
		SkipSuccessfulRequests: false,
	})
}

// ChatRateLimiter for the conversational endpoint
func ChatRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.ChatMax,
		Expiration: config.ChatExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "chat:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Chat limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"error":       "Too many chat messages. Please wait a moment.",
				"retry_after": int(config.ChatExpiration.Seconds()),
			})
		},
	})
}

// PaymentRateLimiter for payment intent creation
func PaymentRateLimiter(config *RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        config.PaymentMax,
		Expiration: config.PaymentExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "payment:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("⚠️  [RATE-LIMIT] Payment limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success":     false,
				"error":       "Too many payment requests. Please wait before trying again.",
				"retry_after": int(config.PaymentExpiration.Seconds()),
			})
		},
	})
}
