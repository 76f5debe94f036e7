package notification

import (
	"time"
)

// EntryResponse represents a notification entry in API responses.
type EntryResponse struct {
	ID           string     `json:"id"`
	Type         Type       `json:"type"`
	Message      string     `json:"message"`
	Status       Status     `json:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ListResponse is a user's notification audit trail.
type ListResponse struct {
	Notifications []EntryResponse `json:"notifications"`
	Total         int             `json:"total"`
}

// ToResponse converts an Entry to its API shape.
func (e *Entry) ToResponse() EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		Type:         e.Type,
		Message:      e.Message,
		Status:       e.Status,
		SentAt:       e.SentAt,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}
