package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	custommiddleware "cryptem/internal/middleware"
	"cryptem/internal/metrics"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler   *AuthHandler
	ChatHandler   *ChatHandler
	SignalHandler *SignalHandler
	AdminHandler  *AdminHandler
	WebHandler    *WebHandler
	Tokens        *custommiddleware.TokenManager
	CORSOrigins   []string
	Logger        logrus.FieldLogger
}

// skipHealth keeps liveness checks out of request logs and metrics
func skipHealth(c echo.Context) bool {
	return c.Request().URL.Path == "/health"
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:      skipHealth,
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := config.Logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
				"remote_ip":  v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(metrics.Middleware(skipHealth))

	e.GET("/", config.WebHandler.HandleIndex)
	e.GET("/health", config.WebHandler.HandleHealth)

	// API group
	api := e.Group("/api")

	// Public routes
	api.POST("/register", config.AuthHandler.Register)
	api.POST("/login", config.AuthHandler.Login)
	api.GET("/market-status", config.SignalHandler.GetMarketStatus)

	// Protected routes
	auth := config.Tokens.AuthMiddleware
	api.GET("/verify-token", config.AuthHandler.VerifyToken, auth)
	api.POST("/chat", config.ChatHandler.Chat, auth)
	api.GET("/signals", config.SignalHandler.GetSignals, auth)

	// Admin routes (protected with Auth + Admin middleware)
	admin := api.Group("/admin", auth, custommiddleware.AdminMiddleware)
	{
		admin.GET("/users", config.AdminHandler.ListUsers)
	}
}
