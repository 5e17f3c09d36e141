package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"cryptem/internal/domain"
)

const claimsKey = "claims"

// ErrNoClaims is returned when a handler runs without AuthMiddleware
var ErrNoClaims = errors.New("claims not found in context")

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. ttl is the token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Used in tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// GenerateJWT generates a new JWT token for a user
func (m *TokenManager) GenerateJWT(user domain.PublicUser) (string, error) {
	now := m.now()
	claims := &JWTClaims{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseJWT validates signature and expiry and returns the claims
func (m *TokenManager) ParseJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// AuthMiddleware validates the bearer token and sets the claims in context.
// Missing or malformed header: 401. Bad signature or expired token: 403.
func (m *TokenManager) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Token not provided")
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" || strings.Contains(tokenString, " ") {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
		}

		claims, err := m.ParseJWT(tokenString)
		if err != nil {
			return c.JSON(http.StatusForbidden, map[string]string{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

// AdminMiddleware checks if the authenticated user is an admin
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := GetClaims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
		}

		if !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}

		return next(c)
	}
}

// GetClaims extracts the token claims from echo context
func GetClaims(c echo.Context) (*JWTClaims, error) {
	claims, ok := c.Get(claimsKey).(*JWTClaims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}
