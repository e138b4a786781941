package models

import "time"

// Transaction statuses
const (
	TxnStatusPending = "pending"
	TxnStatusPaid    = "paid"
	TxnStatusExpired = "expired"
)

// Transaction is a UPI payment-intent record with its GST breakdown.
type Transaction struct {
	ID            int64      `json:"id"`
	TransactionID string     `json:"transaction_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	ProductName   string     `json:"product_name"`
	ProductID     *int64     `json:"product_id,omitempty"`
	BaseAmount    float64    `json:"base_amount"`
	GSTRate       float64    `json:"gst_rate"`
	GSTAmount     float64    `json:"gst_amount"`
	TotalAmount   float64    `json:"total_amount"`
	MerchantUPI   string     `json:"merchant_upi"`
	MerchantName  string     `json:"merchant_name"`
	UTR           string     `json:"utr,omitempty"`
	Status        string     `json:"status"`
	InvoiceID     string     `json:"invoice_id"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod string     `json:"payment_method"`
	Notes         string     `json:"notes,omitempty"`
}

// CreatePaymentRequest is the payload for creating a payment intent.
type CreatePaymentRequest struct {
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	ProductName   string   `json:"product_name"`
	ProductID     *int64   `json:"product_id"`
	BaseAmount    float64  `json:"base_amount"`
	GSTRate       *float64 `json:"gst_rate"`
	Notes         string   `json:"notes"`
}

// PaymentIntent is the response payload for a freshly created payment,
// carrying the UPI deep link and QR code the client renders.
type PaymentIntent struct {
	TransactionID string    `json:"transaction_id"`
	InvoiceID     string    `json:"invoice_id"`
	BaseAmount    float64   `json:"base_amount"`
	GSTRate       float64   `json:"gst_rate"`
	GSTAmount     float64   `json:"gst_amount"`
	TotalAmount   float64   `json:"total_amount"`
	UPILink       string    `json:"upi_link"`
	QRCode        string    `json:"qr_code"`
	MerchantUPI   string    `json:"merchant_upi"`
	MerchantName  string    `json:"merchant_name"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ConfirmPaymentRequest marks a pending transaction as paid.
type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
	UTR           string `json:"utr"`
	PaymentMethod string `json:"payment_method"`
}
