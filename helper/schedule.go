package helper

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

var scheduler *cron.Cron

// StartScheduleCloser deactivates departed schedules on the cron spec.
func StartScheduleCloser(spec string, loc *time.Location, closeDeparted func(ctx context.Context) (int64, error)) error {
	scheduler = cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := scheduler.AddFunc(spec, func() {
		if _, err := closeDeparted(context.Background()); err != nil {
			slog.Error("close departed schedules failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	slog.Info("schedule closer started", "spec", spec)
	return nil
}

func StopScheduleCloser() {
	if scheduler != nil {
		<-scheduler.Stop().Done()
		slog.Info("schedule closer stopped")
	}
}
