package infra

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptem/internal/domain"
	"cryptem/internal/logging"
)

type countingFeed struct {
	calls atomic.Int32
	err   error
}

func (f *countingFeed) Refresh(ctx context.Context) (*domain.SignalSnapshot, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("refresh without deadline")
	}
	return &domain.SignalSnapshot{}, f.err
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	feed := &countingFeed{}
	s := NewScheduler(feed, "@every 1s", time.Second, logging.Discard())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return feed.calls.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler(&countingFeed{}, "every now and then", time.Second, logging.Discard())
	assert.Error(t, s.Start())
}

func TestScheduler_RunNowSwallowsErrors(t *testing.T) {
	feed := &countingFeed{err: errors.New("upstream down")}
	s := NewScheduler(feed, "@every 1m", time.Second, logging.Discard())

	s.RunNow()
	assert.Equal(t, int32(1), feed.calls.Load())
}
