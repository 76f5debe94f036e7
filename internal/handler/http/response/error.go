package response

import (
	"errors"
	"net/http"

	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/auth"
	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
	"github.com/staffsync/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDuplicateLogin):
		Conflict(w, "Already logged in today")
	case errors.Is(err, attendance.ErrDuplicateLogout):
		Conflict(w, "Already logged out today")
	case errors.Is(err, attendance.ErrConflictingRecord):
		Conflict(w, "Attendance already recorded for this date")
	case errors.Is(err, attendance.ErrInvalidOrdering):
		BadRequest(w, "Logout time cannot precede login time", nil)
	case errors.Is(err, attendance.ErrPastDate):
		BadRequest(w, "Date cannot be in the past", nil)
	case errors.Is(err, attendance.ErrUserInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrEntryNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
