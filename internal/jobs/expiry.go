// Package jobs holds the background work the API process schedules.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Expirer closes waiting matches whose join window has passed.
type Expirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

type ExpirySweeper struct {
	sched    gocron.Scheduler
	expirer  Expirer
	interval time.Duration
	timeout  time.Duration
}

// NewExpirySweeper schedules a sweep every interval. Runs never overlap: a
// sweep still running when the next is due pushes it back.
func NewExpirySweeper(expirer Expirer, interval time.Duration) (*ExpirySweeper, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("expiry sweep interval must be positive, got %s", interval)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}

	s := &ExpirySweeper{
		sched:    sched,
		expirer:  expirer,
		interval: interval,
		timeout:  max(interval, 30*time.Second),
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			s.Sweep(ctx)
		}),
		gocron.WithName("expire-stale-matches"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule expiry sweep: %w", err)
	}

	return s, nil
}

func (s *ExpirySweeper) Start() {
	slog.Info("expiry sweeper started", "interval", s.interval)
	s.sched.Start()
}

// Stop waits for a running sweep to finish.
func (s *ExpirySweeper) Stop(_ context.Context) error {
	err := s.sched.Shutdown()
	if err != nil {
		return fmt.Errorf("stop expiry sweeper: %w", err)
	}

	return nil
}

// Sweep runs one expiry pass.
func (s *ExpirySweeper) Sweep(ctx context.Context) {
	start := time.Now()

	n, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "expiry sweep", "expired", n, "error", err)
		return
	}

	if n > 0 {
		slog.InfoContext(ctx, "expiry sweep", "expired", n, "took", time.Since(start))
	}
}
