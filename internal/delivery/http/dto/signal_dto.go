package dto

import (
	"time"

	"cryptem/internal/domain"
)

// SignalsResponse is the normalized signal list for the dashboard
type SignalsResponse struct {
	Signals   []domain.Signal `json:"signals"`
	BuyCount  int             `json:"buy_count"`
	SellCount int             `json:"sell_count"`
	UpdatedAt time.Time       `json:"updated_at"`
	Stale     bool            `json:"stale"`
}
