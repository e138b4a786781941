package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"agristore/internal/database"
	"agristore/internal/logging"
	"agristore/internal/models"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// DefaultGSTRate applies when the caller does not supply one.
const DefaultGSTRate = 0.18

// ErrTransactionNotFound is returned for unknown transaction ids.
var ErrTransactionNotFound = errors.New("transaction not found")

// PaymentService creates and confirms UPI payment-intent records with their
// GST breakdown. There is no gateway: the UPI deep link plus QR code is the
// whole payment flow, and confirmation is caller-supplied (UTR reference).
type PaymentService struct {
	db       *database.DB
	settings *SettingsService
	expiry   time.Duration
}

// NewPaymentService creates a payment service
func NewPaymentService(db *database.DB, settings *SettingsService, expiry time.Duration) *PaymentService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &PaymentService{db: db, settings: settings, expiry: expiry}
}

// CalculateGST returns the GST amount and total, both rounded to two
// decimal places.
func CalculateGST(baseAmount, gstRate float64) (gstAmount, totalAmount float64) {
	gstAmount = math.Round(baseAmount*gstRate*100) / 100
	totalAmount = math.Round((baseAmount+gstAmount)*100) / 100
	return gstAmount, totalAmount
}

// GenerateUPILink builds the upi://pay deep link for the given amount.
func GenerateUPILink(merchantUPI, merchantName string, amount float64, invoiceID string) string {
	nameEncoded := strings.ReplaceAll(merchantName, " ", "+")
	amountStr := strconv.FormatFloat(amount, 'f', -1, 64)
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s", merchantUPI, nameEncoded, amountStr, invoiceID)
}

// GenerateQRCode renders the UPI link as a 256px PNG, base64-encoded without
// the data-URL prefix.
func GenerateQRCode(upiLink string) (string, error) {
	png, err := qrcode.Encode(upiLink, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// NewTransactionID mints a unique payment-intent identifier.
func NewTransactionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("txn_%d_%s", time.Now().UnixMilli(), suffix)
}

// NewInvoiceID derives the invoice number from the transaction id and date.
func NewInvoiceID(transactionID string, now time.Time) string {
	tail := transactionID
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), strings.ToUpper(tail))
}

// CreatePayment computes the GST breakdown, generates the UPI link and QR
// code and stores the pending transaction.
func (s *PaymentService) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest) (*models.PaymentIntent, error) {
	if req.CustomerName == "" || req.CustomerEmail == "" || req.ProductName == "" {
		return nil, errors.New("customer_name, customer_email and product_name are required")
	}
	if req.BaseAmount <= 0 {
		return nil, errors.New("base_amount must be positive")
	}

	gstRate := DefaultGSTRate
	if req.GSTRate != nil {
		gstRate = *req.GSTRate
	}
	gstAmount, totalAmount := CalculateGST(req.BaseAmount, gstRate)

	now := time.Now()
	transactionID := NewTransactionID()
	invoiceID := NewInvoiceID(transactionID, now)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	upiLink := GenerateUPILink(settings.MerchantUPI, settings.BusinessName, totalAmount, invoiceID)
	qrCode, err := GenerateQRCode(upiLink)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO transactions
		(transaction_id, customer_name, customer_email, customer_phone, product_name, product_id,
		 base_amount, gst_rate, gst_amount, total_amount, merchant_upi, merchant_name, invoice_id,
		 status, payment_method, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', 'UPI', ?, ?)`,
		transactionID, req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.ProductName, req.ProductID,
		req.BaseAmount, gstRate, gstAmount, totalAmount, settings.MerchantUPI, settings.BusinessName,
		invoiceID, req.Notes, now)
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	logging.WithTransaction(transactionID, invoiceID).Info("payment intent created", "total", totalAmount)
	recordPaymentCreated()

	return &models.PaymentIntent{
		TransactionID: transactionID,
		InvoiceID:     invoiceID,
		BaseAmount:    req.BaseAmount,
		GSTRate:       gstRate,
		GSTAmount:     gstAmount,
		TotalAmount:   totalAmount,
		UPILink:       upiLink,
		QRCode:        qrCode,
		MerchantUPI:   settings.MerchantUPI,
		MerchantName:  settings.BusinessName,
		ExpiresAt:     now.Add(s.expiry),
	}, nil
}

// ConfirmPayment records the caller-supplied UTR and marks the transaction
// paid.
func (s *PaymentService) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.Transaction, error) {
	method := req.PaymentMethod
	if method == "" {
		method = "UPI"
	}

	result, err := s.db.ExecContext(ctx, `UPDATE transactions
		SET utr = ?, status = 'paid', paid_at = ?, payment_method = ?
		WHERE transaction_id = ?`,
		req.UTR, time.Now(), method, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrTransactionNotFound
	}

	tx, err := s.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	logging.WithTransaction(req.TransactionID, tx.InvoiceID).Info("payment confirmed", "utr", req.UTR)
	recordPaymentConfirmed()
	return tx, nil
}

// GetTransaction loads a transaction by its public id.
func (s *PaymentService) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, transaction_id, customer_name, customer_email, customer_phone,
		product_name, product_id, base_amount, gst_rate, gst_amount, total_amount,
		merchant_upi, merchant_name, utr, status, invoice_id, created_at, paid_at, payment_method, notes
		FROM transactions WHERE transaction_id = ?`, transactionID)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return tx, nil
}

// GetTransactionByInvoice loads a transaction by its invoice number.
func (s *PaymentService) GetTransactionByInvoice(ctx context.Context, invoiceID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, transaction_id, customer_name, customer_email, customer_phone,
		product_name, product_id, base_amount, gst_rate, gst_amount, total_amount,
		merchant_upi, merchant_name, utr, status, invoice_id, created_at, paid_at, payment_method, notes
		FROM transactions WHERE invoice_id = ?`, invoiceID)

	tx, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return tx, nil
}

// ExpirePending marks pending transactions older than the configured expiry
// as expired. Returns the number of rows swept.
func (s *PaymentService) ExpirePending(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.expiry)
	result, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET status = 'expired' WHERE status = 'pending' AND created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending transactions: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		log.Printf("🧹 [PAYMENT] Expired %d stale pending transactions", rows)
		recordPaymentsExpired(int(rows))
	}
	return int(rows), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx        models.Transaction
		phone     sql.NullString
		productID sql.NullInt64
		utr       sql.NullString
		invoiceID sql.NullString
		paidAt    sql.NullTime
		method    sql.NullString
		notes     sql.NullString
	)

	err := row.Scan(&tx.ID, &tx.TransactionID, &tx.CustomerName, &tx.CustomerEmail, &phone,
		&tx.ProductName, &productID, &tx.BaseAmount, &tx.GSTRate, &tx.GSTAmount, &tx.TotalAmount,
		&tx.MerchantUPI, &tx.MerchantName, &utr, &tx.Status, &invoiceID, &tx.CreatedAt, &paidAt, &method, &notes)
	if err != nil {
		return nil, err
	}

	tx.CustomerPhone = phone.String
	if productID.Valid {
		tx.ProductID = &productID.Int64
	}
	tx.UTR = utr.String
	tx.InvoiceID = invoiceID.String
	if paidAt.Valid {
		tx.PaidAt = &paidAt.Time
	}
	tx.PaymentMethod = method.String
	tx.Notes = notes.String
	return &tx, nil
}
