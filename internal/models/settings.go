package models

// BusinessSettings is the single-row merchant profile used for UPI links,
// invoices and outgoing mail.
type BusinessSettings struct {
	BusinessName    string `json:"business_name"`
	BusinessEmail   string `json:"business_email"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`
	BusinessGSTIN   string `json:"business_gstin,omitempty"`
	BusinessPAN     string `json:"business_pan,omitempty"`
	MerchantUPI     string `json:"merchant_upi"`
	BankName        string `json:"bank_name,omitempty"`
	BankAccount     string `json:"bank_account,omitempty"`
	IFSCCode        string `json:"ifsc_code,omitempty"`
	LogoURL         string `json:"logo_url,omitempty"`
	WebsiteURL      string `json:"website_url,omitempty"`
}

// SiteImages is the single-row set of storefront imagery slots.
type SiteImages struct {
	Logo   string `json:"logo"`
	Hero   string `json:"hero"`
	About  string `json:"about"`
	QRCode string `json:"qr_code"`
}

// SiteImagesInput carries partial updates; nil fields keep current values.
type SiteImagesInput struct {
	Logo   *string `json:"logo"`
	Hero   *string `json:"hero"`
	About  *string `json:"about"`
	QRCode *string `json:"qr_code"`
}
