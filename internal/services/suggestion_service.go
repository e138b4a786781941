package services

import (
	"strings"

	"agristore/internal/models"
)

// SuggestForPath maps a client-side route to fixed call-to-action
// suggestions. Pure and deterministic; no state, no network.
func SuggestForPath(path string) []models.Suggestion {
	if strings.Contains(path, "products") {
		return []models.Suggestion{
			{Type: "cta", Label: "See Brush Cutters", URL: "#/products?cat=BrushCutter"},
			{Type: "cta", Label: "Get a custom quote", URL: "#/contact"},
		}
	}
	if strings.Contains(path, "pricing") {
		return []models.Suggestion{
			{Type: "cta", Label: "Request a demo", URL: "#/contact"},
			{Type: "cta", Label: "Talk to sales", URL: "mailto:ratanagritech@gmail.com"},
		}
	}
	return []models.Suggestion{
		{Type: "cta", Label: "Browse products", URL: "#/products"},
	}
}
