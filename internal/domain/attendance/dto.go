package attendance

import (
	"time"

	"github.com/staffsync/attendance-backend-go/internal/pkg/validator"
)

// ============= Request DTOs =============

// MarkLeaveRequest declares leave for a target date.
type MarkLeaveRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

func (r *MarkLeaveRequest) Validate() error {
	return validateDeclarationDate(r.Date)
}

// MarkRemoteRequest declares remote work for a target date.
type MarkRemoteRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

func (r *MarkRemoteRequest) Validate() error {
	return validateDeclarationDate(r.Date)
}

func validateDeclarationDate(date string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRecordRequest is the admin correction path. It bypasses the
// automatic state machine on purpose; only field validity is checked here.
type UpdateRecordRequest struct {
	ID         string  `json:"-"`
	Status     *string `json:"status,omitempty"`
	WorkType   *string `json:"work_type,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	LoginTime  *string `json:"login_time,omitempty"`
	LogoutTime *string `json:"logout_time,omitempty"`
}

func (r *UpdateRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "invalid status",
		})
	}
	if r.WorkType != nil && !WorkType(*r.WorkType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "work_type",
			Message: "invalid work type",
		})
	}
	if r.LoginTime != nil {
		if _, ok := validator.IsValidDateTime(*r.LoginTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "login_time",
				Message: "login_time must be an ISO8601 timestamp",
			})
		}
	}
	if r.LogoutTime != nil {
		if _, ok := validator.IsValidDateTime(*r.LogoutTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "logout_time",
				Message: "logout_time must be an ISO8601 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListRequest filters the admin date listing.
type ListRequest struct {
	Date       string
	Department string
	Status     string
}

func (r *ListRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.Date) {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if !validator.IsEmpty(r.Status) && !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "invalid status",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ============= Response DTOs =============

// RecordResponse represents an attendance record in API responses.
type RecordResponse struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	UserName            string  `json:"user_name,omitempty"`
	UserDepartment      string  `json:"user_department,omitempty"`
	Date                string  `json:"date"`
	LoginTime           *string `json:"login_time"`
	LogoutTime          *string `json:"logout_time"`
	Status              string  `json:"status"`
	WorkType            string  `json:"work_type"`
	Notes               *string `json:"notes,omitempty"`
	WorkDurationMinutes *int    `json:"work_duration_minutes"`
}

// SummaryResponse counts a user's recent attendance by outcome.
type SummaryResponse struct {
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
	RemoteDays  int `json:"remote_days"`
	LeaveDays   int `json:"leave_days"`
	AbsentDays  int `json:"absent_days"`
}

// MyAttendanceResponse is the staff dashboard payload.
type MyAttendanceResponse struct {
	Today   *RecordResponse  `json:"today"`
	Recent  []RecordResponse `json:"recent"`
	Summary SummaryResponse  `json:"summary"`
}

// DayStats aggregates one date's records for the admin listing.
type DayStats struct {
	Present int `json:"present"`
	Remote  int `json:"remote"`
	Leave   int `json:"leave"`
	Absent  int `json:"absent"`
}

// ListResponse is the admin date listing payload. Departments carries the
// distinct active departments so the listing's filter can be driven from
// the same response.
type ListResponse struct {
	Date        string           `json:"date"`
	Departments []string         `json:"departments"`
	Records     []RecordResponse `json:"records"`
	Stats       DayStats         `json:"stats"`
}

// SweepResult reports one absence sweep run.
type SweepResult struct {
	Date    string `json:"date"`
	Marked  int    `json:"marked"`
	Skipped int    `json:"skipped"`
}

// ToResponse converts a Record to its API shape.
func (r *Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:                  r.ID,
		UserID:              r.UserID,
		Date:                r.Date.Format("2006-01-02"),
		LoginTime:           formatTimePtr(r.LoginTime),
		LogoutTime:          formatTimePtr(r.LogoutTime),
		Status:              string(r.Status),
		WorkType:            string(r.WorkType),
		Notes:               r.Notes,
		WorkDurationMinutes: r.WorkDurationMinutes(),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
