package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/staffsync/attendance-backend-go/internal/config"
	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/pkg/clock"
)

// AttendanceJobs owns the background work of the portal: sweeping staff with
// no record into Absent after the daily cutoff, and re-driving notification
// deliveries that never left the store.
type AttendanceJobs struct {
	engine          attendance.Service
	notificationSvc notification.Service
	cfg             config.AttendanceConfig
	clock           clock.Clock
	logger          *slog.Logger
}

func NewAttendanceJobs(
	engine attendance.Service,
	notificationSvc notification.Service,
	cfg config.AttendanceConfig,
	clk clock.Clock,
	logger *slog.Logger,
) *AttendanceJobs {
	return &AttendanceJobs{
		engine:          engine,
		notificationSvc: notificationSvc,
		cfg:             cfg,
		clock:           clk,
		logger:          logger,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("absence_sweep", j.cfg.SweepInterval, j.SweepAbsentees)
	scheduler.AddJob("notification_catch_up", 5*time.Minute, j.CatchUpNotifications)
}

// SweepAbsentees materializes Absent records for today once the configured
// cutoff has passed in the portal timezone. The sweep itself is idempotent,
// so running on every tick after the cutoff is harmless.
func (j *AttendanceJobs) SweepAbsentees(ctx context.Context) error {
	now := j.clock.Now().In(j.cfg.Location())

	cutoffHour, cutoffMinute := j.cfg.CutoffClock()
	if now.Hour() < cutoffHour || (now.Hour() == cutoffHour && now.Minute() < cutoffMinute) {
		return nil
	}

	result, err := j.engine.RunAbsenceSweep(ctx, j.clock.Now())
	if err != nil {
		return err
	}

	if result.Marked > 0 || result.Skipped > 0 {
		j.logger.Info("absence sweep completed",
			"date", result.Date,
			"marked", result.Marked,
			"skipped", result.Skipped)
	}
	return nil
}

// CatchUpNotifications re-attempts entries still pending in the store, the
// safety net for restarts and a full dispatch queue.
func (j *AttendanceJobs) CatchUpNotifications(ctx context.Context) error {
	n, err := j.notificationSvc.DispatchPending(ctx)
	if err != nil {
		return err
	}

	if n > 0 {
		j.logger.Info("notification catch-up processed backlog", "count", n)
	}
	return nil
}
