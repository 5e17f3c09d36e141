package domain

import "time"

// Signal is a normalized trading signal ready for display
type Signal struct {
	Symbol               string  `json:"symbol"`
	Type                 string  `json:"type"`
	DisplayType          string  `json:"display_type"`
	EntryPrice           float64 `json:"entry_price"`
	TargetPrice          float64 `json:"target_price"`
	ProjectionPercentage float64 `json:"projection_percentage"`
	EntryTime            string  `json:"entry_time"`
	Status               string  `json:"status"`
	QualityScore         float64 `json:"quality_score"`
	SignalClass          string  `json:"signal_class"`
}

// Signal side constants
const (
	SideLong  = "LONG"
	SideShort = "SHORT"
)

// Display labels shown on signal cards
const (
	DisplayBuy  = "COMPRA"
	DisplaySell = "VENDA"
)

// Signal class constants
const (
	ClassPremium = "PREMIUM"
	ClassElite   = "ELITE"
)

// IsLong checks if the signal is a LONG signal
func (s *Signal) IsLong() bool {
	return s.Type == SideLong
}

// SignalSnapshot is a normalized signal list and when it was fetched
type SignalSnapshot struct {
	Signals   []Signal  `json:"signals"`
	BuyCount  int       `json:"buy_count"`
	SellCount int       `json:"sell_count"`
	UpdatedAt time.Time `json:"updated_at"`
	Stale     bool      `json:"stale"`
}
