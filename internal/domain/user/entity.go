package user

import (
	"time"
)

// Role of a portal account.
type Role string

const (
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Status of a portal account lifecycle.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Department   string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive reports whether the account may generate attendance events.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
