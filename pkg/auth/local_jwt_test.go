package auth

import (
	"testing"
	"time"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"lowercase scheme", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a, err := NewLocalJWTAuth("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, err := a.GenerateToken("admin@example.com")
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	admin, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if admin.Email != "admin@example.com" {
		t.Errorf("email = %q, want admin@example.com", admin.Email)
	}
	if admin.Role != "admin" {
		t.Errorf("role = %q, want admin", admin.Role)
	}
}

func TestVerifyTokenRejectsOtherSecret(t *testing.T) {
	a, _ := NewLocalJWTAuth("secret-one", time.Hour)
	b, _ := NewLocalJWTAuth("secret-two", time.Hour)

	token, err := a.GenerateToken("admin@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.VerifyToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestNewLocalJWTAuthRequiresSecret(t *testing.T) {
	if _, err := NewLocalJWTAuth("", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Tractor#2026")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	ok, err := VerifyPassword(hash, "Tractor#2026")
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword(hash, "wrong-password")
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPasswordRejectsBadFormat(t *testing.T) {
	for _, hash := range []string{"", "plaintext", "argon2id$only-one-part", "md5$a$b"} {
		if _, err := VerifyPassword(hash, "x"); err == nil {
			t.Errorf("malformed hash %q accepted", hash)
		}
	}
}
