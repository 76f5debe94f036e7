package notification

import (
	"context"
)

// Sender is the external delivery channel: one attempt, success or error.
// Any non-nil error is a terminal failure for the entry being delivered.
type Sender interface {
	Send(ctx context.Context, address, message string) error
}

// Queue accepts outbound messages. Enqueue persists the entry before
// returning; delivery happens out of band. Callers on the attendance path
// must treat Enqueue errors as log-and-continue, never as a reason to fail
// the attendance mutation that triggered the message.
type Queue interface {
	Enqueue(ctx context.Context, userID, message string, typ Type) (*Entry, error)
}

// Service is the queue plus the dispatcher that drains it.
type Service interface {
	Queue

	// DispatchPending attempts delivery of entries still pending, oldest
	// first, and reports how many were processed. Used as the catch-up
	// cycle; the background dispatcher handles the live path.
	DispatchPending(ctx context.Context) (int, error)

	// ListForUser returns a user's audit trail.
	ListForUser(ctx context.Context, userID string, limit int) (ListResponse, error)

	// Stop drains the background dispatcher.
	Stop()
}
