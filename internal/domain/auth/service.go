package auth

import (
	"context"

	"github.com/staffsync/attendance-backend-go/internal/domain/user"
)

// Service is the thin identity path in front of the attendance engine.
// Session mechanics and password management beyond account creation are
// out of scope; the interesting part is that Login and Logout are the
// authentication events that drive attendance.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, userID string) (LogoutResponse, error)
}
