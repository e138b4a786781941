package services

import (
	"bytes"
	"context"
	"fmt"

	"agristore/internal/database"
	"agristore/internal/models"

	"github.com/xuri/excelize/v2"
)

// DashboardStats summarizes transactions for the admin dashboard.
type DashboardStats struct {
	TotalTransactions  int                  `json:"total_transactions"`
	TotalRevenue       float64              `json:"total_revenue"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// ReportService aggregates transactions for the dashboard and exports them
// as a spreadsheet.
type ReportService struct {
	db *database.DB
}

// NewReportService creates a report service
func NewReportService(db *database.DB) *ReportService {
	return &ReportService{db: db}
}

// Dashboard returns transaction totals, paid revenue and the ten most recent
// transactions.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{RecentTransactions: []models.Transaction{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&stats.TotalTransactions); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE status = 'paid'`).Scan(&stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, transaction_id, customer_name, customer_email, customer_phone,
		product_name, product_id, base_amount, gst_rate, gst_amount, total_amount,
		merchant_upi, merchant_name, utr, status, invoice_id, created_at, paid_at, payment_method, notes
		FROM transactions ORDER BY created_at DESC, id DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		stats.RecentTransactions = append(stats.RecentTransactions, *tx)
	}
	return stats, rows.Err()
}

// ExportXLSX renders all transactions as an XLSX workbook.
func (s *ReportService) ExportXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, transaction_id, customer_name, customer_email, customer_phone,
		product_name, product_id, base_amount, gst_rate, gst_amount, total_amount,
		merchant_upi, merchant_name, utr, status, invoice_id, created_at, paid_at, payment_method, notes
		FROM transactions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Transaction ID", "Invoice ID", "Customer", "Email", "Phone", "Product",
		"Base Amount", "GST Rate", "GST Amount", "Total", "Status", "UTR", "Created At", "Paid At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	rowIdx := 2
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		paidAt := ""
		if tx.PaidAt != nil {
			paidAt = tx.PaidAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{tx.TransactionID, tx.InvoiceID, tx.CustomerName, tx.CustomerEmail, tx.CustomerPhone,
			tx.ProductName, tx.BaseAmount, tx.GSTRate, tx.GSTAmount, tx.TotalAmount, tx.Status, tx.UTR,
			tx.CreatedAt.Format("2006-01-02 15:04:05"), paidAt}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			f.SetCellValue(sheet, cell, v)
		}
		rowIdx++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
