package models

import "time"

// Product is a catalog entry shown on the storefront.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput is the create/update payload for a product.
// Pointer fields distinguish "not provided" from zero values on update.
type ProductInput struct {
	Name        *string  `json:"name" yaml:"name"`
	Description *string  `json:"description" yaml:"description"`
	Price       *float64 `json:"price" yaml:"price"`
	ImageURL    *string  `json:"image_url" yaml:"image_url"`
	Category    *string  `json:"category" yaml:"category"`
}
