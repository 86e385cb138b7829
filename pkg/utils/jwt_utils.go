package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies tokens. It has no default: main must call
// InitJWT with a secret supplied at startup before any token is issued.
var jwtSecretKey []byte

// tokenTTL is the fixed validity window from issuance. Default 24 hours.
var tokenTTL = 24 * time.Hour

const tokenIssuer = "medstock-backend"

// InitJWT configures the signing key and token lifetime.
func InitJWT(secret string, ttl time.Duration) {
	jwtSecretKey = []byte(secret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// Claims defines the JWT claims structure. The token asserts a hospital
// identity only; it carries no secrets beyond identifiers.
type Claims struct {
	HospitalID int64  `json:"hospital_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed token for the given hospital.
func GenerateToken(hospitalID int64, email string) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", fmt.Errorf("jwt signing key is not configured")
	}
	now := time.Now()
	claims := &Claims{
		HospitalID: hospitalID,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
