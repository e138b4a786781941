package services

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"agristore/internal/config"
	"agristore/internal/models"

	"github.com/yuin/goldmark"
	"gopkg.in/gomail.v2"
)

// EmailService sends invoice emails over SMTP. Disabled when no SMTP host is
// configured; callers should check Enabled() before sending.
type EmailService struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewEmailService creates an email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPUser,
	}
}

// Enabled reports whether SMTP delivery is configured.
func (s *EmailService) Enabled() bool {
	return s.host != ""
}

// SendInvoice mails the invoice PDF to the customer with a rendered summary
// in the body.
func (s *EmailService) SendInvoice(tx *models.Transaction, settings *models.BusinessSettings, pdf []byte) error {
	if !s.Enabled() {
		return fmt.Errorf("email delivery is not configured")
	}

	body, err := renderInvoiceBody(tx, settings)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", tx.CustomerEmail)
	m.SetHeader("Subject", fmt.Sprintf("Invoice %s from %s", tx.InvoiceID, settings.BusinessName))
	m.SetBody("text/html", body)
	m.Attach(tx.InvoiceID+".pdf", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invoice email: %w", err)
	}

	log.Printf("📧 [EMAIL] Sent invoice %s to %s", tx.InvoiceID, tx.CustomerEmail)
	return nil
}

// renderInvoiceBody builds the email body from a markdown template so the
// layout stays easy to edit.
func renderInvoiceBody(tx *models.Transaction, settings *models.BusinessSettings) (string, error) {
	md := fmt.Sprintf(`# Thank you for your purchase!

Hi %s,

Your payment for **%s** has been received. Invoice **%s** is attached.

| | |
|---|---|
| Base amount | INR %.2f |
| GST (%.0f%%) | INR %.2f |
| **Total** | **INR %.2f** |

For any questions, reach us at %s or %s.

%s
%s
`,
		tx.CustomerName, tx.ProductName, tx.InvoiceID,
		tx.BaseAmount, tx.GSTRate*100, tx.GSTAmount, tx.TotalAmount,
		settings.BusinessPhone, settings.BusinessEmail,
		settings.BusinessName, settings.BusinessAddress)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("failed to render invoice email: %w", err)
	}
	return buf.String(), nil
}
