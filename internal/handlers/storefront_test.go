package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"agristore/internal/database"
	"agristore/internal/models"
	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

type storefrontFixture struct {
	app      *fiber.App
	payments *services.PaymentService
}

func newStorefrontApp(t *testing.T) *storefrontFixture {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("initialize database: %v", err)
	}

	settingsService := services.NewSettingsService(db)
	paymentService := services.NewPaymentService(db, settingsService, time.Hour)

	paymentHandler := NewPaymentHandler(paymentService, settingsService, services.NewInvoiceService(), nil)
	siteImageHandler := NewSiteImageHandler(services.NewSiteImageService(db), "https://shop.example.com")
	settingsHandler := NewSettingsHandler(settingsService)
	uploadHandler := NewUploadHandler()

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/transaction/:id", paymentHandler.GetTransaction)
	api.Get("/site-images", siteImageHandler.Get)
	api.Post("/site-images", siteImageHandler.Update)
	api.Get("/business-settings", settingsHandler.Get)
	api.Post("/business-settings", settingsHandler.Update)
	api.Post("/upload", uploadHandler.Handle)

	return &storefrontFixture{app: app, payments: paymentService}
}

func TestTransactionReturnsBareRecord(t *testing.T) {
	fx := newStorefrontApp(t)

	intent, err := fx.payments.CreatePayment(context.Background(), &models.CreatePaymentRequest{
		CustomerName:  "Asha Devi",
		CustomerEmail: "asha@example.com",
		ProductName:   "Brush Cutter",
		BaseAmount:    1000,
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/transaction/"+intent.TransactionID, nil)
	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["transaction_id"] != intent.TransactionID {
		t.Errorf("transaction_id = %v, want %s", body["transaction_id"], intent.TransactionID)
	}
	if _, wrapped := body["data"]; wrapped {
		t.Error("response wraps the record in a data envelope, want bare fields")
	}
	if _, wrapped := body["success"]; wrapped {
		t.Error("response carries a success flag, want bare fields")
	}
}

func TestTransactionNotFound(t *testing.T) {
	fx := newStorefrontApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/transaction/txn_nope", nil)
	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSiteImagesUpdateViaPost(t *testing.T) {
	fx := newStorefrontApp(t)

	logo := "/img/logo.png"
	payload, _ := json.Marshal(models.SiteImagesInput{Logo: &logo})
	req := httptest.NewRequest(http.MethodPost, "/api/site-images", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/site-images", nil)
	getResp, err := fx.app.Test(getReq)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body map[string]any
	if err := json.NewDecoder(getResp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	data, _ := body["data"].(map[string]any)
	if data["logo"] != "https://shop.example.com/img/logo.png" {
		t.Errorf("logo = %v, want absolutized path", data["logo"])
	}
}

func TestBusinessSettingsUpdateViaPost(t *testing.T) {
	fx := newStorefrontApp(t)

	payload := `{"business_name":"Shakti Agro","business_email":"shakti@example.com","business_phone":"+91 9000000000","business_address":"Jaipur","merchant_upi":"shakti@upi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/business-settings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	data, _ := body["data"].(map[string]any)
	if data["business_name"] != "Shakti Agro" {
		t.Errorf("business_name = %v, want Shakti Agro", data["business_name"])
	}
}

func TestUploadReturnsFlatURL(t *testing.T) {
	fx := newStorefrontApp(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="logo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := fx.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	url, _ := body["url"].(string)
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("url = %q, want data URL at the top level", url)
	}
	if _, wrapped := body["data"]; wrapped {
		t.Error("upload response wraps the url in a data envelope")
	}
}
