package services

import (
	"bytes"
	"fmt"

	"agristore/internal/models"

	"github.com/go-pdf/fpdf"
)

// InvoiceService renders GST invoices as PDF documents.
type InvoiceService struct{}

// NewInvoiceService creates an invoice service
func NewInvoiceService() *InvoiceService {
	return &InvoiceService{}
}

// BuildPDF renders the invoice for a transaction.
func (s *InvoiceService) BuildPDF(tx *models.Transaction, settings *models.BusinessSettings) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header: merchant identity
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, settings.BusinessName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, settings.BusinessAddress)
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("%s | %s", settings.BusinessPhone, settings.BusinessEmail))
	pdf.Ln(5)
	if settings.BusinessGSTIN != "" {
		pdf.Cell(0, 6, "GSTIN: "+settings.BusinessGSTIN)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "TAX INVOICE")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(95, 6, "Invoice No: "+tx.InvoiceID)
	pdf.Cell(95, 6, "Date: "+tx.CreatedAt.Format("02 Jan 2006"))
	pdf.Ln(6)
	pdf.Cell(95, 6, "Transaction: "+tx.TransactionID)
	pdf.Cell(95, 6, "Status: "+tx.Status)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed To")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tx.CustomerName)
	pdf.Ln(5)
	pdf.Cell(0, 6, tx.CustomerEmail)
	pdf.Ln(5)
	if tx.CustomerPhone != "" {
		pdf.Cell(0, 6, tx.CustomerPhone)
		pdf.Ln(5)
	}
	pdf.Ln(4)

	// Line items
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(110, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(80, 8, "Amount (INR)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(110, 8, tx.ProductName, "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 8, fmt.Sprintf("%.2f", tx.BaseAmount), "1", 1, "R", false, 0, "")

	pdf.CellFormat(110, 8, fmt.Sprintf("GST @ %.0f%%", tx.GSTRate*100), "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 8, fmt.Sprintf("%.2f", tx.GSTAmount), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(110, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(80, 8, fmt.Sprintf("%.2f", tx.TotalAmount), "1", 1, "R", true, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	if tx.UTR != "" {
		pdf.Cell(0, 5, fmt.Sprintf("Payment received via %s (UTR: %s)", tx.PaymentMethod, tx.UTR))
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, "UPI: "+tx.MerchantUPI)
	pdf.Ln(10)
	pdf.Cell(0, 5, "This is a computer-generated invoice.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}
