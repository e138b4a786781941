package services

import (
	"context"
	"database/sql"
	"fmt"

	"agristore/internal/database"
	"agristore/internal/models"
)

// SettingsService reads and updates the single-row merchant profile.
type SettingsService struct {
	db *database.DB
}

// NewSettingsService creates a settings service
func NewSettingsService(db *database.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the business settings row, falling back to built-in defaults
// when the row is missing.
func (s *SettingsService) Get(ctx context.Context) (*models.BusinessSettings, error) {
	row := s.db.QueryRowContext(ctx, `SELECT business_name, business_email, business_phone, business_address,
		business_gstin, business_pan, merchant_upi, bank_name, bank_account, ifsc_code, logo_url, website_url
		FROM business_settings WHERE id = 1`)

	var settings models.BusinessSettings
	var gstin, pan, bankName, bankAccount, ifsc, logo, website sql.NullString
	err := row.Scan(&settings.BusinessName, &settings.BusinessEmail, &settings.BusinessPhone,
		&settings.BusinessAddress, &gstin, &pan, &settings.MerchantUPI,
		&bankName, &bankAccount, &ifsc, &logo, &website)
	if err == sql.ErrNoRows {
		return &models.BusinessSettings{
			BusinessName:    "Ratan Agri Tech",
			BusinessEmail:   "ratanagritech@gmail.com",
			BusinessPhone:   "+91 7726017648",
			BusinessAddress: "Jagmalpura, Sikar, Rajasthan",
			MerchantUPI:     "ratanagritech@axisbank",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	settings.BusinessGSTIN = gstin.String
	settings.BusinessPAN = pan.String
	settings.BankName = bankName.String
	settings.BankAccount = bankAccount.String
	settings.IFSCCode = ifsc.String
	settings.LogoURL = logo.String
	settings.WebsiteURL = website.String
	return &settings, nil
}

// Update applies a partial update; empty fields keep their current values.
func (s *SettingsService) Update(ctx context.Context, input *models.BusinessSettings) (*models.BusinessSettings, error) {
	_, err := s.db.ExecContext(ctx, `UPDATE business_settings SET
		business_name = COALESCE(NULLIF(?, ''), business_name),
		business_email = COALESCE(NULLIF(?, ''), business_email),
		business_phone = COALESCE(NULLIF(?, ''), business_phone),
		business_address = COALESCE(NULLIF(?, ''), business_address),
		business_gstin = COALESCE(NULLIF(?, ''), business_gstin),
		business_pan = COALESCE(NULLIF(?, ''), business_pan),
		merchant_upi = COALESCE(NULLIF(?, ''), merchant_upi),
		bank_name = COALESCE(NULLIF(?, ''), bank_name),
		bank_account = COALESCE(NULLIF(?, ''), bank_account),
		ifsc_code = COALESCE(NULLIF(?, ''), ifsc_code),
		logo_url = COALESCE(NULLIF(?, ''), logo_url),
		website_url = COALESCE(NULLIF(?, ''), website_url),
		updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`,
		input.BusinessName, input.BusinessEmail, input.BusinessPhone, input.BusinessAddress,
		input.BusinessGSTIN, input.BusinessPAN, input.MerchantUPI,
		input.BankName, input.BankAccount, input.IFSCCode, input.LogoURL, input.WebsiteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to update business settings: %w", err)
	}

	return s.Get(ctx)
}
