package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/argon2"
)

// AdminUser represents an authenticated admin
type AdminUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ExtractToken extracts the JWT token from an Authorization header value.
// Supports "Bearer <token>" format.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("empty authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header format")
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("empty token")
	}

	return token, nil
}

// LocalJWTAuth issues and verifies admin session tokens
type LocalJWTAuth struct {
	SecretKey   []byte
	TokenExpiry time.Duration // Default: 12 hours
}

// NewLocalJWTAuth creates a new local JWT auth instance
func NewLocalJWTAuth(secretKey string, tokenExpiry time.Duration) (*LocalJWTAuth, error) {
	if secretKey == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}

	if tokenExpiry == 0 {
		tokenExpiry = 12 * time.Hour
	}

	return &LocalJWTAuth{
		SecretKey:   []byte(secretKey),
		TokenExpiry: tokenExpiry,
	}, nil
}

// AdminClaims represents the JWT token claims
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed admin session token
func (a *LocalJWTAuth) GenerateToken(email string) (string, error) {
	claims := AdminClaims{
		Email: email,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "agristore",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.SecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken verifies a session token and returns the admin identity
func (a *LocalJWTAuth) VerifyToken(tokenString string) (*AdminUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.SecretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return &AdminUser{Email: claims.Email, Role: claims.Role}, nil
	}

	return nil, errors.New("invalid token")
}

// Argon2 password hashing parameters (OWASP recommended)
const (
	argon2Time      = 3         // Number of iterations
	argon2Memory    = 64 * 1024 // 64MB
	argon2Threads   = 4         // Parallelism
	argon2KeyLength = 32        // 32 bytes (256 bits)
	saltLength      = 16        // 16 bytes salt
)

// HashPassword hashes a password using Argon2id
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLength)

	saltEncoded := base64.RawStdEncoding.EncodeToString(salt)
	hashEncoded := base64.RawStdEncoding.EncodeToString(hash)

	// Format: argon2id$salt$hash
	return fmt.Sprintf("argon2id$%s$%s", saltEncoded, hashEncoded), nil
}

// VerifyPassword verifies a password against an Argon2id hash
func VerifyPassword(hashedPassword, password string) (bool, error) {
	const prefix = "argon2id$"
	if !strings.HasPrefix(hashedPassword, prefix) {
		return false, fmt.Errorf("invalid hash format: missing argon2id prefix")
	}

	hashParts := strings.Split(hashedPassword[len(prefix):], "$")
	if len(hashParts) != 2 {
		return false, fmt.Errorf("invalid hash format: expected 2 parts, got %d", len(hashParts))
	}

	salt, err := base64.RawStdEncoding.DecodeString(hashParts[0])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(hashParts[1])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	actualHash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLength)

	return subtle.ConstantTimeCompare(actualHash, expectedHash) == 1, nil
}
