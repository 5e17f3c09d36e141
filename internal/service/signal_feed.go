package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"cryptem/internal/domain"
	"cryptem/internal/metrics"
)

// SignalFeed caches the last normalized signal snapshot
type SignalFeed struct {
	source domain.SignalSource
	ttl    time.Duration
	now    func() time.Time
	log    logrus.FieldLogger

	// refreshes share one in-flight fetch so an older fetch never lands last
	group singleflight.Group

	mu       sync.RWMutex
	snapshot *domain.SignalSnapshot
}

// NewSignalFeed creates a new SignalFeed. ttl <= 0 disables caching.
func NewSignalFeed(source domain.SignalSource, ttl time.Duration, log logrus.FieldLogger) *SignalFeed {
	return &SignalFeed{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		log:    log.WithField("component", "signal_feed"),
	}
}

// Current returns the cached snapshot while fresh, otherwise refreshes
func (f *SignalFeed) Current(ctx context.Context) (*domain.SignalSnapshot, error) {
	f.mu.RLock()
	snap := f.snapshot
	f.mu.RUnlock()

	if snap != nil && !snap.Stale && f.ttl > 0 && f.now().Sub(snap.UpdatedAt) < f.ttl {
		return copySnapshot(snap), nil
	}

	return f.Refresh(ctx)
}

// Refresh fetches and normalizes the upstream list.
// On failure the previous snapshot is served with Stale set.
// Concurrent callers join the fetch already in flight.
func (f *SignalFeed) Refresh(ctx context.Context) (*domain.SignalSnapshot, error) {
	v, err, _ := f.group.Do("refresh", func() (interface{}, error) {
		return f.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return copySnapshot(v.(*domain.SignalSnapshot)), nil
}

func (f *SignalFeed) refresh(ctx context.Context) (*domain.SignalSnapshot, error) {
	snap, err := f.fetch(ctx)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.snapshot == nil {
			metrics.RecordSignalRefresh(metrics.RefreshError, 0)
			return nil, err
		}

		metrics.RecordSignalRefresh(metrics.RefreshStale, 0)
		f.log.WithError(err).Warn("Signal refresh failed, serving stale snapshot")
		f.snapshot.Stale = true
		return copySnapshot(f.snapshot), nil
	}

	f.mu.Lock()
	f.snapshot = snap
	f.mu.Unlock()

	metrics.RecordSignalRefresh(metrics.RefreshOK, len(snap.Signals))
	f.log.WithFields(logrus.Fields{
		"signals": len(snap.Signals),
		"buy":     snap.BuyCount,
		"sell":    snap.SellCount,
	}).Debug("Signal feed refreshed")

	return copySnapshot(snap), nil
}

func (f *SignalFeed) fetch(ctx context.Context) (*domain.SignalSnapshot, error) {
	raw, err := f.source.FetchSignals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signals: %w", err)
	}

	signals, err := NormalizeSignals(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize signals: %w", err)
	}

	buy, sell := Summary(signals)
	return &domain.SignalSnapshot{
		Signals:   signals,
		BuyCount:  buy,
		SellCount: sell,
		UpdatedAt: f.now().UTC(),
	}, nil
}

func copySnapshot(s *domain.SignalSnapshot) *domain.SignalSnapshot {
	out := *s
	out.Signals = append([]domain.Signal(nil), s.Signals...)
	return &out
}
