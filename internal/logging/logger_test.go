package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func captureJSON(t *testing.T, fn func()) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	fn()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestWithSessionAttachesFields(t *testing.T) {
	entry := captureJSON(t, func() {
		WithSession("sess_1_abc", "/products").Info("turn complete")
	})

	if entry["session_id"] != "sess_1_abc" {
		t.Errorf("session_id = %v, want sess_1_abc", entry["session_id"])
	}
	if entry["last_path"] != "/products" {
		t.Errorf("last_path = %v, want /products", entry["last_path"])
	}
}

func TestWithTransactionAttachesFields(t *testing.T) {
	entry := captureJSON(t, func() {
		WithTransaction("txn_1_abc", "INV-20260901-ABCD1234").Info("payment confirmed")
	})

	if entry["transaction_id"] != "txn_1_abc" {
		t.Errorf("transaction_id = %v, want txn_1_abc", entry["transaction_id"])
	}
	if entry["invoice_id"] != "INV-20260901-ABCD1234" {
		t.Errorf("invoice_id = %v, want INV-20260901-ABCD1234", entry["invoice_id"])
	}
}
