package notification

import "errors"

// Notification domain errors
var (
	ErrEntryNotFound = errors.New("notification entry not found")
	ErrInvalidType   = errors.New("invalid notification type")
)
