package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the JWT claims carried by access tokens. The acting
// principal (user ID plus host/staff flags) is always explicit; no
// handler derives identity from anything but a verified token.
type Claims struct {
	UserID  uuid.UUID `json:"uid"`
	IsHost  bool      `json:"is_host"`
	IsStaff bool      `json:"is_staff"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HMAC-signed access tokens.
type JWTManager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewJWTManager creates a JWTManager with the given signing secret and token lifetime.
func NewJWTManager(secret string, tokenTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), tokenTTL: tokenTTL}
}

// Generate issues a signed access token for the principal.
func (m *JWTManager) Generate(userID uuid.UUID, isHost, isStaff bool) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:  userID,
		IsHost:  isHost,
		IsStaff: isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning its claims.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
