package cron

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/attendance-backend-go/internal/config"
	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/pkg/clock"
)

type fakeEngine struct {
	attendance.Service

	sweepDates []time.Time
}

func (e *fakeEngine) RunAbsenceSweep(_ context.Context, date time.Time) (attendance.SweepResult, error) {
	e.sweepDates = append(e.sweepDates, date)
	return attendance.SweepResult{Date: date.Format("2006-01-02"), Marked: 1}, nil
}

type fakeNotificationSvc struct {
	notification.Service

	dispatched int
}

func (s *fakeNotificationSvc) DispatchPending(_ context.Context) (int, error) {
	s.dispatched++
	return 0, nil
}

var testLogger = slog.New(slog.NewTextHandler(discard{}, nil))

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func jobsAt(engine *fakeEngine, now time.Time) *AttendanceJobs {
	cfg := config.AttendanceConfig{
		CutoffTime:    "09:00",
		Timezone:      "Asia/Jakarta",
		SweepInterval: time.Hour,
	}
	return NewAttendanceJobs(engine, &fakeNotificationSvc{}, cfg, clock.Fixed(now), testLogger)
}

func TestSweepAbsentees_GatedOnCutoff(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	tests := []struct {
		name      string
		now       time.Time
		wantSweep bool
	}{
		{name: "before cutoff", now: time.Date(2025, 3, 10, 8, 59, 0, 0, jakarta), wantSweep: false},
		{name: "at cutoff", now: time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta), wantSweep: true},
		{name: "after cutoff", now: time.Date(2025, 3, 10, 17, 0, 0, 0, jakarta), wantSweep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			jobs := jobsAt(engine, tt.now)

			err := jobs.SweepAbsentees(context.Background())

			require.NoError(t, err)
			if tt.wantSweep {
				assert.Len(t, engine.sweepDates, 1)
			} else {
				assert.Empty(t, engine.sweepDates)
			}
		})
	}
}

func TestCatchUpNotifications_DelegatesToService(t *testing.T) {
	svc := &fakeNotificationSvc{}
	cfg := config.AttendanceConfig{CutoffTime: "09:00", Timezone: "UTC", SweepInterval: time.Hour}
	jobs := NewAttendanceJobs(&fakeEngine{}, svc, cfg, clock.System(), testLogger)

	err := jobs.CatchUpNotifications(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, svc.dispatched)
}
