package user

import (
	"context"
)

// Repository defines data access for portal accounts. The attendance core
// only reads identity, role, lifecycle status and the WhatsApp address;
// account management beyond creation belongs to the identity collaborator.
type Repository interface {
	// Create inserts a new account. Returns ErrEmailExists when the email
	// is already registered.
	Create(ctx context.Context, u User) (User, error)

	// GetByID returns the account or ErrUserNotFound.
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail returns the account or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListAdmins returns all active admin accounts, used for sweep alerts.
	ListAdmins(ctx context.Context) ([]User, error)

	// ListDepartments returns the distinct departments of active users.
	ListDepartments(ctx context.Context) ([]string, error)
}
