package attendance

import "errors"

// Attendance domain errors
var (
	// Event errors surfaced to the caller
	ErrDuplicateLogin    = errors.New("you have already logged in today")
	ErrDuplicateLogout   = errors.New("you have already logged out today")
	ErrInvalidOrdering   = errors.New("logout time is before login time")
	ErrConflictingRecord = errors.New("date already has a worked attendance record")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrPastDate          = errors.New("cannot mark past dates")

	// Store error: another writer already created the record for this
	// (user, date). The engine recovers by re-reading; it never escapes
	// the engine boundary.
	ErrDuplicateRecord = errors.New("attendance record already exists for this user and date")
)
