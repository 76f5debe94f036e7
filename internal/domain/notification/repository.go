package notification

import (
	"context"
	"time"
)

// Repository defines the notification queue's persistence contract.
type Repository interface {
	// Create inserts a new entry with status pending.
	Create(ctx context.Context, entry *Entry) error

	// GetByID returns an entry or ErrEntryNotFound.
	GetByID(ctx context.Context, id string) (*Entry, error)

	// MarkSent records a successful delivery. Idempotent: marking an
	// entry that already reached a terminal state is a no-op.
	MarkSent(ctx context.Context, id string, sentAt time.Time) error

	// MarkFailed records a terminal delivery failure. Idempotent like
	// MarkSent.
	MarkFailed(ctx context.Context, id string, errorMessage string) error

	// ListPending returns pending entries oldest first, up to limit.
	ListPending(ctx context.Context, limit int) ([]*Entry, error)

	// ListByUser returns a user's entries newest first, up to limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]*Entry, error)
}
