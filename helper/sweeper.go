package helper

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var sweepScheduler gocron.Scheduler

// StartSeatSweeper runs sweep every interval. A run that is still going
// when the next one is due makes the scheduler skip that tick.
func StartSeatSweeper(interval time.Duration, loc *time.Location, sweep func(ctx context.Context) error) error {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()
			if err := sweep(ctx); err != nil {
				slog.Error("seat sweep failed", "error", err)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("seat-sweeper"),
	)
	if err != nil {
		return err
	}

	sweepScheduler = s
	s.Start()
	slog.Info("seat sweeper started", "interval", interval)
	return nil
}

func StopSeatSweeper() {
	if sweepScheduler == nil {
		return
	}
	if err := sweepScheduler.Shutdown(); err != nil {
		slog.Warn("seat sweeper shutdown", "error", err)
		return
	}
	slog.Info("seat sweeper stopped")
}
