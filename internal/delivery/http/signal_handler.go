package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"cryptem/internal/delivery/http/dto"
	"cryptem/internal/domain"
	"cryptem/internal/service"
)

// SignalProvider returns the current signal snapshot
type SignalProvider interface {
	Current(ctx context.Context) (*domain.SignalSnapshot, error)
}

// MarketStatusProvider reports exchange session state
type MarketStatusProvider interface {
	Status() domain.MarketStatus
}

// SignalHandler serves the signal dashboard data
type SignalHandler struct {
	feed   SignalProvider
	market MarketStatusProvider
	log    logrus.FieldLogger
}

// NewSignalHandler creates a new SignalHandler
func NewSignalHandler(feed SignalProvider, market MarketStatusProvider, log logrus.FieldLogger) *SignalHandler {
	return &SignalHandler{
		feed:   feed,
		market: market,
		log:    log.WithField("handler", "signals"),
	}
}

// GetSignals returns normalized signals, optionally filtered by ?class=
// GET /api/signals
func (h *SignalHandler) GetSignals(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	snap, err := h.feed.Current(ctx)
	if err != nil {
		h.log.WithError(err).Error("Failed to load signals")
		return ErrorResponse(c, http.StatusBadGateway, "Failed to load signals", err)
	}

	signals := snap.Signals
	if classes := service.ParseClassFilter(c.QueryParam("class")); len(classes) > 0 {
		signals = service.FilterByClass(signals, classes)
	}
	buy, sell := service.Summary(signals)

	return c.JSON(http.StatusOK, dto.SignalsResponse{
		Signals:   signals,
		BuyCount:  buy,
		SellCount: sell,
		UpdatedAt: snap.UpdatedAt,
		Stale:     snap.Stale,
	})
}

// GetMarketStatus returns the New York and Asia session state
// GET /api/market-status
func (h *SignalHandler) GetMarketStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.market.Status())
}
