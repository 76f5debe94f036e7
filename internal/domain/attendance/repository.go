package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. The UNIQUE
// (user_id, date) constraint in the store is the sole authority on record
// uniqueness; the engine never takes an application-level lock.
type Repository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord when a
	// record for the same (user_id, date) already exists.
	Create(ctx context.Context, rec Record) (Record, error)

	// GetByID returns a record or ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (Record, error)

	// GetByUserAndDate returns the record for one user on one civil date,
	// or ErrRecordNotFound.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Record, error)

	// Update persists changes to an existing record by ID.
	Update(ctx context.Context, rec Record) (Record, error)

	// ListByDate returns all records for a date, joined with user name and
	// department for admin views.
	ListByDate(ctx context.Context, date time.Time, filter ListFilter) ([]RecordWithUser, error)

	// ListByUserSince returns a user's records from a start date onward,
	// newest first.
	ListByUserSince(ctx context.Context, userID string, from time.Time) ([]Record, error)

	// ListAbsenteeUserIDs returns the ids of active staff users with no
	// record for the date, computed as a single set-difference query.
	ListAbsenteeUserIDs(ctx context.Context, date time.Time) ([]string, error)
}

// ListFilter narrows admin date listings.
type ListFilter struct {
	Department string
	Status     Status
}

// RecordWithUser is a record joined with the owning user's display fields.
type RecordWithUser struct {
	Record
	UserName       string
	UserDepartment string
}
