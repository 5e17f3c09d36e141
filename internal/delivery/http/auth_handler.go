package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"cryptem/internal/delivery/http/dto"
	"cryptem/internal/domain"
	"cryptem/internal/middleware"
	"cryptem/internal/usecase"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	auth *usecase.AuthService
	log  logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *usecase.AuthService, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log.WithField("handler", "auth"),
	}
}

// Register handles user registration
// POST /api/register
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return BadRequestResponse(c, "Email and password are required")
		case errors.Is(err, domain.ErrUserExists):
			return ConflictResponse(c, "Email already registered")
		default:
			h.log.WithError(err).Error("Registration failed")
			return InternalServerErrorResponse(c)
		}
	}

	return c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "User registered successfully",
		User:    dto.NewUserOutput(user.Public()),
	})
}

// Login handles user login
// POST /api/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, user, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return BadRequestResponse(c, "Email and password are required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return UnauthorizedResponse(c, "Invalid credentials")
		default:
			h.log.WithError(err).Error("Login failed")
			return InternalServerErrorResponse(c)
		}
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserOutput(user.Public()),
	})
}

// VerifyToken returns the claims of a valid token
// GET /api/verify-token
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		return UnauthorizedResponse(c, "User not authenticated")
	}

	return c.JSON(http.StatusOK, dto.VerifyTokenResponse{
		Message: "Valid token",
		User:    claims,
	})
}
