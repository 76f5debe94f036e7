package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffsync/attendance-backend-go/internal/config"
	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
	"github.com/staffsync/attendance-backend-go/internal/pkg/clock"
)

type service struct {
	users   user.Repository
	records attendance.Repository
	queue   notification.Queue
	clock   clock.Clock
	loc     *time.Location

	// remoteLoginPromotes controls whether a login on a Remote day promotes
	// status to Present. Work type stays Remote either way.
	remoteLoginPromotes bool

	logger *slog.Logger
}

// NewService creates the attendance engine.
func NewService(
	users user.Repository,
	records attendance.Repository,
	queue notification.Queue,
	clk clock.Clock,
	cfg config.AttendanceConfig,
	logger *slog.Logger,
) attendance.Service {
	return &service{
		users:               users,
		records:             records,
		queue:               queue,
		clock:               clk,
		loc:                 cfg.Location(),
		remoteLoginPromotes: cfg.RemoteLoginPromotes,
		logger:              logger,
	}
}

// RecordLogin implements attendance.Service.
func (s *service) RecordLogin(ctx context.Context, userID string) (attendance.RecordResponse, error) {
	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock.Now()
	today := clock.Day(now, s.loc)

	rec, err := s.records.GetByUserAndDate(ctx, userID, today)
	switch {
	case err == nil:
		return s.applyLoginExisting(ctx, u, rec, now)
	case errors.Is(err, attendance.ErrRecordNotFound):
		// fall through to create
	default:
		return attendance.RecordResponse{}, err
	}

	created, err := s.records.Create(ctx, attendance.Record{
		UserID:    userID,
		Date:      today,
		LoginTime: &now,
		Status:    attendance.StatusPresent,
		WorkType:  attendance.WorkTypeOffice,
	})
	if errors.Is(err, attendance.ErrDuplicateRecord) {
		// Lost the insert race; the winner's record is the day's record.
		// Re-read and apply the login transition to it instead.
		rec, err = s.records.GetByUserAndDate(ctx, userID, today)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		return s.applyLoginExisting(ctx, u, rec, now)
	}
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.enqueue(ctx, userID, loginMessage(u.Name, now.In(s.loc)), notification.TypeLogin)

	return created.ToResponse(), nil
}

// applyLoginExisting applies a login event to a record that already exists
// for the day, preserving the first login_time forever.
func (s *service) applyLoginExisting(ctx context.Context, u user.User, rec attendance.Record, now time.Time) (attendance.RecordResponse, error) {
	if rec.LoginTime != nil {
		return rec.ToResponse(), attendance.ErrDuplicateLogin
	}

	rec.LoginTime = &now
	switch rec.Status {
	case attendance.StatusAbsent:
		// Late arrival after the sweep; the day was worked after all.
		rec.Status = attendance.StatusPresent
		rec.WorkType = attendance.WorkTypeOffice
	case attendance.StatusRemote:
		if s.remoteLoginPromotes {
			rec.Status = attendance.StatusPresent
		}
	case attendance.StatusLeave:
		// Login on a leave day records the time but keeps the leave status;
		// the declared plan stands until an admin corrects it.
	}

	updated, err := s.records.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.enqueue(ctx, u.ID, loginMessage(u.Name, now.In(s.loc)), notification.TypeLogin)

	return updated.ToResponse(), nil
}

// RecordLogout implements attendance.Service.
func (s *service) RecordLogout(ctx context.Context, userID string) (attendance.RecordResponse, error) {
	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.clock.Now()
	today := clock.Day(now, s.loc)

	rec, err := s.records.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if rec.LoginTime == nil {
		// Nothing to close out: a logout needs a session to end.
		return attendance.RecordResponse{}, attendance.ErrRecordNotFound
	}
	if rec.LogoutTime != nil {
		return rec.ToResponse(), attendance.ErrDuplicateLogout
	}
	if now.Before(*rec.LoginTime) {
		return attendance.RecordResponse{}, attendance.ErrInvalidOrdering
	}

	rec.LogoutTime = &now
	updated, err := s.records.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.enqueue(ctx, userID, logoutMessage(u.Name, now.In(s.loc), updated.WorkDurationMinutes()), notification.TypeLogout)

	return updated.ToResponse(), nil
}

// MarkLeave implements attendance.Service.
func (s *service) MarkLeave(ctx context.Context, userID string, req attendance.MarkLeaveRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.declare(ctx, userID, req.Date, req.Notes, attendance.StatusLeave, attendance.WorkTypeLeave)
}

// MarkRemote implements attendance.Service.
func (s *service) MarkRemote(ctx context.Context, userID string, req attendance.MarkRemoteRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.declare(ctx, userID, req.Date, req.Notes, attendance.StatusRemote, attendance.WorkTypeRemote)
}

// declare is the shared path for leave and remote declarations: today or a
// future date, and never over a day that was actually worked.
func (s *service) declare(ctx context.Context, userID, dateStr, notes string, status attendance.Status, workType attendance.WorkType) (attendance.RecordResponse, error) {
	if _, err := s.activeUser(ctx, userID); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	today := clock.Day(s.clock.Now(), s.loc)
	if date.Before(today) {
		return attendance.RecordResponse{}, attendance.ErrPastDate
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	rec, err := s.records.GetByUserAndDate(ctx, userID, date)
	switch {
	case err == nil:
		return s.overwriteDeclaration(ctx, rec, status, workType, notesPtr)
	case errors.Is(err, attendance.ErrRecordNotFound):
		// fall through to create
	default:
		return attendance.RecordResponse{}, err
	}

	created, err := s.records.Create(ctx, attendance.Record{
		UserID:   userID,
		Date:     date,
		Status:   status,
		WorkType: workType,
		Notes:    notesPtr,
	})
	if errors.Is(err, attendance.ErrDuplicateRecord) {
		rec, err = s.records.GetByUserAndDate(ctx, userID, date)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		return s.overwriteDeclaration(ctx, rec, status, workType, notesPtr)
	}
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return created.ToResponse(), nil
}

func (s *service) overwriteDeclaration(ctx context.Context, rec attendance.Record, status attendance.Status, workType attendance.WorkType, notes *string) (attendance.RecordResponse, error) {
	if rec.Worked() {
		return attendance.RecordResponse{}, attendance.ErrConflictingRecord
	}

	rec.Status = status
	rec.WorkType = workType
	rec.Notes = notes

	updated, err := s.records.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return updated.ToResponse(), nil
}

// RunAbsenceSweep implements attendance.Service. The date argument is an
// instant; the swept civil date is resolved in the portal timezone, the
// same key every other engine path uses.
func (s *service) RunAbsenceSweep(ctx context.Context, date time.Time) (attendance.SweepResult, error) {
	day := clock.Day(date, s.loc)

	ids, err := s.records.ListAbsenteeUserIDs(ctx, day)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to resolve absentees: %w", err)
	}

	result := attendance.SweepResult{Date: day.Format("2006-01-02")}
	for _, id := range ids {
		_, err := s.records.Create(ctx, attendance.Record{
			UserID:   id,
			Date:     day,
			Status:   attendance.StatusAbsent,
			WorkType: attendance.WorkTypeOffice,
		})
		switch {
		case err == nil:
			result.Marked++
		case errors.Is(err, attendance.ErrDuplicateRecord):
			// A record appeared between the listing and the insert. The
			// user acted for themselves; nothing to mark.
			result.Skipped++
		default:
			s.logger.Error("absence sweep insert failed",
				slog.String("user_id", id),
				slog.String("date", result.Date),
				slog.Any("error", err))
			result.Skipped++
		}
	}

	if result.Marked > 0 {
		s.alertAdmins(ctx, result)
	}

	return result, nil
}

func (s *service) alertAdmins(ctx context.Context, result attendance.SweepResult) {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to list admins for sweep alert", slog.Any("error", err))
		return
	}

	msg := fmt.Sprintf("Attendance alert: %d staff marked Absent for %s with no login, leave or remote declaration.",
		result.Marked, result.Date)
	for _, admin := range admins {
		s.enqueue(ctx, admin.ID, msg, notification.TypeAlert)
	}
}

// GetMyAttendance implements attendance.Service.
func (s *service) GetMyAttendance(ctx context.Context, userID string) (attendance.MyAttendanceResponse, error) {
	if _, err := s.activeUser(ctx, userID); err != nil {
		return attendance.MyAttendanceResponse{}, err
	}

	today := clock.Day(s.clock.Now(), s.loc)
	since := today.AddDate(0, 0, -29)

	records, err := s.records.ListByUserSince(ctx, userID, since)
	if err != nil {
		return attendance.MyAttendanceResponse{}, err
	}

	resp := attendance.MyAttendanceResponse{Recent: []attendance.RecordResponse{}}
	recentFrom := today.AddDate(0, 0, -6)

	for i := range records {
		rec := &records[i]
		resp.Summary.TotalDays++
		switch rec.Status {
		case attendance.StatusPresent:
			resp.Summary.PresentDays++
		case attendance.StatusRemote:
			resp.Summary.RemoteDays++
		case attendance.StatusLeave:
			resp.Summary.LeaveDays++
		case attendance.StatusAbsent:
			resp.Summary.AbsentDays++
		}

		if rec.Date.Equal(today) {
			r := rec.ToResponse()
			resp.Today = &r
		}
		if !rec.Date.Before(recentFrom) && !rec.Date.After(today) {
			resp.Recent = append(resp.Recent, rec.ToResponse())
		}
	}

	return resp, nil
}

// ListForDate implements attendance.Service.
func (s *service) ListForDate(ctx context.Context, req attendance.ListRequest) (attendance.ListResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	date := clock.Day(s.clock.Now(), s.loc)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
		if err != nil {
			return attendance.ListResponse{}, fmt.Errorf("invalid date: %w", err)
		}
		date = parsed
	}

	records, err := s.records.ListByDate(ctx, date, attendance.ListFilter{
		Department: req.Department,
		Status:     attendance.Status(req.Status),
	})
	if err != nil {
		return attendance.ListResponse{}, err
	}

	departments, err := s.users.ListDepartments(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	resp := attendance.ListResponse{
		Date:        date.Format("2006-01-02"),
		Departments: departments,
		Records:     make([]attendance.RecordResponse, 0, len(records)),
	}
	for i := range records {
		rec := &records[i]
		r := rec.ToResponse()
		r.UserName = rec.UserName
		r.UserDepartment = rec.UserDepartment
		resp.Records = append(resp.Records, r)

		switch rec.Status {
		case attendance.StatusPresent:
			resp.Stats.Present++
		case attendance.StatusRemote:
			resp.Stats.Remote++
		case attendance.StatusLeave:
			resp.Stats.Leave++
		case attendance.StatusAbsent:
			resp.Stats.Absent++
		}
	}

	return resp, nil
}

// UpdateRecord implements attendance.Service.
func (s *service) UpdateRecord(ctx context.Context, req attendance.UpdateRecordRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.records.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if req.Status != nil {
		rec.Status = attendance.Status(*req.Status)
	}
	if req.WorkType != nil {
		rec.WorkType = attendance.WorkType(*req.WorkType)
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}
	if req.LoginTime != nil {
		t, err := time.Parse(time.RFC3339, *req.LoginTime)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("invalid login_time: %w", err)
		}
		rec.LoginTime = &t
	}
	if req.LogoutTime != nil {
		t, err := time.Parse(time.RFC3339, *req.LogoutTime)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("invalid logout_time: %w", err)
		}
		rec.LogoutTime = &t
	}
	if rec.LoginTime != nil && rec.LogoutTime != nil && rec.LogoutTime.Before(*rec.LoginTime) {
		return attendance.RecordResponse{}, attendance.ErrInvalidOrdering
	}

	updated, err := s.records.Update(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return updated.ToResponse(), nil
}

func (s *service) activeUser(ctx context.Context, userID string) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if !u.IsActive() {
		return user.User{}, attendance.ErrUserInactive
	}
	return u, nil
}

// enqueue hands a message to the notification queue. Queue failures are
// logged and swallowed; the attendance mutation already happened and must
// not be reported as failed because of the side channel.
func (s *service) enqueue(ctx context.Context, userID, message string, typ notification.Type) {
	if s.queue == nil {
		return
	}
	if _, err := s.queue.Enqueue(ctx, userID, message, typ); err != nil {
		s.logger.Error("failed to enqueue notification",
			slog.String("user_id", userID),
			slog.String("type", string(typ)),
			slog.Any("error", err))
	}
}

func loginMessage(name string, at time.Time) string {
	return fmt.Sprintf("Hi %s,\n\nYou have successfully signed in at %s.\n\nHave a productive day! 🚀",
		name, at.Format("3:04 PM"))
}

func logoutMessage(name string, at time.Time, durationMinutes *int) string {
	msg := fmt.Sprintf("Hi %s,\n\nYou have signed out at %s.", name, at.Format("3:04 PM"))
	if durationMinutes != nil {
		msg += fmt.Sprintf("\nTotal work duration: %dh %dm.", *durationMinutes/60, *durationMinutes%60)
	}
	return msg + "\n\nHave a good evening! 🌙"
}
