package service

import (
	"time"

	"cryptem/internal/domain"
	"cryptem/internal/utils"
)

type session struct {
	loc   *time.Location
	open  time.Duration
	close time.Duration
}

var (
	newYorkSession = session{loc: utils.NewYorkLocation(), open: 9*time.Hour + 30*time.Minute, close: 16 * time.Hour}
	asiaSession    = session{loc: utils.TokyoLocation(), open: 9 * time.Hour, close: 15 * time.Hour}
)

func (s session) status(now time.Time) domain.MarketSession {
	local := now.In(s.loc)
	offset := utils.ClockOffset(local)

	status := domain.MarketClosed
	if utils.IsWeekday(local) && offset >= s.open && offset < s.close {
		status = domain.MarketOpen
	}

	return domain.MarketSession{
		Status: status,
		Time:   local.Format("15:04:05"),
	}
}

// MarketStatusService reports whether the New York and Tokyo sessions are open
type MarketStatusService struct {
	now func() time.Time
}

// NewMarketStatusService creates a new MarketStatusService
func NewMarketStatusService() *MarketStatusService {
	return &MarketStatusService{now: time.Now}
}

// Status returns both sessions at the current instant
func (s *MarketStatusService) Status() domain.MarketStatus {
	return s.StatusAt(s.now())
}

// StatusAt returns both sessions at t
func (s *MarketStatusService) StatusAt(t time.Time) domain.MarketStatus {
	return domain.MarketStatus{
		NewYork: newYorkSession.status(t),
		Asia:    asiaSession.status(t),
	}
}
