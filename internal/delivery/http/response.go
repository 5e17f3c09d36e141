package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the error and notice body used across the API
type Response struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse sends a body with only a message
func MessageResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Response{Message: message})
}

// ErrorResponse sends a message plus error detail
func ErrorResponse(c echo.Context, statusCode int, message string, err error) error {
	resp := Response{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	return c.JSON(statusCode, resp)
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return MessageResponse(c, http.StatusBadRequest, message)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return MessageResponse(c, http.StatusUnauthorized, message)
}

// ConflictResponse sends a 409 Conflict response
func ConflictResponse(c echo.Context, message string) error {
	return MessageResponse(c, http.StatusConflict, message)
}

// InternalServerErrorResponse sends a 500 without internal detail
func InternalServerErrorResponse(c echo.Context) error {
	return MessageResponse(c, http.StatusInternalServerError, "Internal server error")
}
