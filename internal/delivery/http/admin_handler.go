package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"cryptem/internal/delivery/http/dto"
	"cryptem/internal/usecase"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	auth *usecase.AuthService
	log  logrus.FieldLogger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(auth *usecase.AuthService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		auth: auth,
		log:  log.WithField("handler", "admin"),
	}
}

// ListUsers returns every registered user without password hashes
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.auth.ListUsers(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to list users")
		return InternalServerErrorResponse(c)
	}

	out := make([]dto.UserOutput, 0, len(users))
	for _, u := range users {
		out = append(out, *dto.NewUserOutput(u))
	}

	return c.JSON(http.StatusOK, dto.UsersResponse{
		Users: out,
		Count: len(out),
	})
}
