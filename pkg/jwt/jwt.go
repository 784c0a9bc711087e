// Package jwt provides JWT token generation and validation utilities.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
	// ErrEmptyUserID is returned when user_id is empty.
	ErrEmptyUserID = errors.New("user_id cannot be empty")
)

// TenantMembership is the lightweight membership claim embedded in tokens.
// The role claim may be a legacy alias spelling; it is resolved on use,
// never at signing time.
type TenantMembership struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID  string             `json:"id"`
	Name    string             `json:"name,omitempty"`
	Tenants []TenantMembership `json:"tenants,omitempty"`

	jwt.RegisteredClaims
}

// Generator creates and validates JWT tokens.
type Generator struct {
	secret   []byte
	issuer   string
	duration time.Duration
}

// NewGenerator creates a new Generator.
func NewGenerator(secret, issuer string, duration time.Duration) (*Generator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	return &Generator{
		secret:   []byte(secret),
		issuer:   issuer,
		duration: duration,
	}, nil
}

// GenerateAccessToken creates a signed access token for a user.
func (g *Generator) GenerateAccessToken(userID, name string, tenants []TenantMembership) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID:  userID,
		Name:    name,
		Tenants: tenants,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    g.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a signed token.
func (g *Generator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithIssuer(g.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
