package services

import (
	"context"
	"database/sql"
	"fmt"

	"agristore/internal/database"
	"agristore/internal/models"
)

// SiteImageService manages the single-row set of storefront imagery slots.
type SiteImageService struct {
	db *database.DB
}

// NewSiteImageService creates a site image service
func NewSiteImageService(db *database.DB) *SiteImageService {
	return &SiteImageService{db: db}
}

// Get returns the current image slots.
func (s *SiteImageService) Get(ctx context.Context) (*models.SiteImages, error) {
	row := s.db.QueryRowContext(ctx, `SELECT logo, hero, about, qr_code FROM site_images WHERE id = 1`)

	var images models.SiteImages
	var logo, hero, about, qrCode sql.NullString
	err := row.Scan(&logo, &hero, &about, &qrCode)
	if err == sql.ErrNoRows {
		return &models.SiteImages{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load site images: %w", err)
	}

	images.Logo = logo.String
	images.Hero = hero.String
	images.About = about.String
	images.QRCode = qrCode.String
	return &images, nil
}

// Update applies a partial update; nil fields keep current values.
func (s *SiteImageService) Update(ctx context.Context, input *models.SiteImagesInput) (*models.SiteImages, error) {
	_, err := s.db.ExecContext(ctx, `UPDATE site_images SET
		logo = COALESCE(?, logo),
		hero = COALESCE(?, hero),
		about = COALESCE(?, about),
		qr_code = COALESCE(?, qr_code),
		updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`,
		input.Logo, input.Hero, input.About, input.QRCode)
	if err != nil {
		return nil, fmt.Errorf("failed to update site images: %w", err)
	}
	return s.Get(ctx)
}
