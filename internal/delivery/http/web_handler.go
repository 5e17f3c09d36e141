package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// WebHandler serves the service banner and liveness endpoints
type WebHandler struct {
	version string
	started time.Time
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(version string) *WebHandler {
	return &WebHandler{
		version: version,
		started: time.Now(),
	}
}

// HandleIndex describes the API
// GET /
func (h *WebHandler) HandleIndex(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Cryptem API",
		"version": h.version,
		"endpoints": map[string]string{
			"register":      "POST /api/register",
			"login":         "POST /api/login",
			"verify_token":  "GET /api/verify-token",
			"chat":          "POST /api/chat",
			"signals":       "GET /api/signals",
			"market_status": "GET /api/market-status",
		},
	})
}

// HandleHealth reports process liveness
// GET /health
func (h *WebHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "cryptem-api",
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
