package notification

import (
	"time"
)

// Type classifies an outbound message.
type Type string

const (
	TypeLogin    Type = "login"
	TypeLogout   Type = "logout"
	TypeReminder Type = "reminder"
	TypeAlert    Type = "alert"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeLogin, TypeLogout, TypeReminder, TypeAlert:
		return true
	}
	return false
}

// Status is the delivery state of an entry. Entries start pending and move
// to exactly one terminal state; terminal entries are never re-marked.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// Terminal reports whether the status is a delivery outcome.
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// Entry is one row of the outbound notification log. Entries are append
// only: after insert, only the dispatcher writes Status, SentAt and
// ErrorMessage. Nothing ever deletes them; the log doubles as the audit
// trail of every delivery attempt.
type Entry struct {
	ID           string
	UserID       string
	Message      string
	Type         Type
	Status       Status
	SentAt       *time.Time
	ErrorMessage *string
	CreatedAt    time.Time
}
