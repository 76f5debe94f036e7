package attendance

import (
	"context"
	"time"
)

// Service is the attendance engine: it translates discrete events into
// record transitions and emits notification requests. All operations are
// single-transition; concurrent writers are reconciled through the store's
// uniqueness constraint, never through locks held here.
type Service interface {
	// RecordLogin handles a login event at the engine clock's current
	// time. A second login on the same day returns the existing record
	// together with ErrDuplicateLogin; login_time is never overwritten.
	RecordLogin(ctx context.Context, userID string) (RecordResponse, error)

	// RecordLogout handles a logout event. A second logout returns the
	// existing record with ErrDuplicateLogout.
	RecordLogout(ctx context.Context, userID string) (RecordResponse, error)

	// MarkLeave declares leave for a future-or-today date.
	MarkLeave(ctx context.Context, userID string, req MarkLeaveRequest) (RecordResponse, error)

	// MarkRemote declares remote work for a future-or-today date.
	MarkRemote(ctx context.Context, userID string, req MarkRemoteRequest) (RecordResponse, error)

	// RunAbsenceSweep materializes Absent records for every active staff
	// user with no record on date. Idempotent; individual failures are
	// skipped without aborting the batch.
	RunAbsenceSweep(ctx context.Context, date time.Time) (SweepResult, error)

	// GetMyAttendance returns today's record, recent history and a
	// 30-day summary for the staff dashboard.
	GetMyAttendance(ctx context.Context, userID string) (MyAttendanceResponse, error)

	// ListForDate returns all records for a date with per-status counts.
	ListForDate(ctx context.Context, req ListRequest) (ListResponse, error)

	// UpdateRecord is the explicit admin override path outside the
	// automatic state machine.
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) (RecordResponse, error)
}
