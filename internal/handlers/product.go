package handlers

import (
	"errors"
	"log"
	"strconv"

	"agristore/internal/models"
	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles catalog CRUD requests
type ProductHandler struct {
	products *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns all products.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		log.Printf("❌ [CATALOG] List failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load products",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    products,
	})
}

// Get returns one product by id.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid product id",
		})
	}

	product, err := h.products.Get(c.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Product not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to load product",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// Create adds a new product.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	product, err := h.products.Create(c.Context(), &input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// Update applies a partial update to a product.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid product id",
		})
	}

	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	product, err := h.products.Update(c.Context(), id, &input)
	if errors.Is(err, services.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Product not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    product,
	})
}

// Delete removes a product.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid product id",
		})
	}

	err = h.products.Delete(c.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Product not found",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete product",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
	})
}
