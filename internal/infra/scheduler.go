package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"cryptem/internal/domain"
)

// FeedRefresher refreshes the cached signal snapshot
type FeedRefresher interface {
	Refresh(ctx context.Context) (*domain.SignalSnapshot, error)
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	feed     FeedRefresher
	schedule string
	timeout  time.Duration
	log      logrus.FieldLogger
}

// NewScheduler creates a new scheduler.
// schedule is a standard cron spec or descriptor such as "@every 30s".
func NewScheduler(feed FeedRefresher, schedule string, timeout time.Duration, log logrus.FieldLogger) *Scheduler {
	log = log.WithField("component", "scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(log)),
			cron.SkipIfStillRunning(cron.PrintfLogger(log)),
		)),
		feed:     feed,
		schedule: schedule,
		timeout:  timeout,
		log:      log,
	}
}

// Start registers the refresh job and starts the cron scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunNow); err != nil {
		return fmt.Errorf("failed to add signal refresh job: %w", err)
	}

	s.cron.Start()
	s.log.WithField("schedule", s.schedule).Info("[OK] Scheduler started successfully")
	return nil
}

// RunNow refreshes the signal feed once
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.feed.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("Scheduled signal refresh failed")
	}
}

// Stop stops the scheduler and waits for a running job
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.log.Info("[OK] Scheduler stopped")
}
