package attendance

import (
	"time"
)

// Status is the daily attendance outcome for a user. Closed set; the store
// persists the string form but all transition logic works on this type.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
	StatusRemote  Status = "Remote"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLeave, StatusRemote:
		return true
	}
	return false
}

// WorkType records where (or whether) the day was worked. It is kept
// separate from Status so a remote day that was actually worked preserves
// both facts: why the user was absent from the office and that they worked.
type WorkType string

const (
	WorkTypeOffice WorkType = "Office"
	WorkTypeRemote WorkType = "Remote"
	WorkTypeLeave  WorkType = "Leave"
)

// Valid reports whether w is a known work type.
func (w WorkType) Valid() bool {
	switch w {
	case WorkTypeOffice, WorkTypeRemote, WorkTypeLeave:
		return true
	}
	return false
}

// Record is one user's attendance for one calendar day. The store enforces
// UNIQUE(user_id, date); at most one record per user per day ever exists.
type Record struct {
	ID         string
	UserID     string
	Date       time.Time // civil date, midnight UTC
	LoginTime  *time.Time
	LogoutTime *time.Time
	Status     Status
	WorkType   WorkType
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WorkDurationMinutes computes the worked duration on demand. It is defined
// only when both login and logout are set and never negative; nil otherwise.
func (r *Record) WorkDurationMinutes() *int {
	if r.LoginTime == nil || r.LogoutTime == nil {
		return nil
	}
	d := r.LogoutTime.Sub(*r.LoginTime)
	if d < 0 {
		return nil
	}
	minutes := int(d.Minutes())
	return &minutes
}

// Worked reports whether the record carries any actual login/logout
// activity. Worked days cannot be converted to leave or remote.
func (r *Record) Worked() bool {
	return r.LoginTime != nil || r.LogoutTime != nil
}
