package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/auth"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
	"github.com/staffsync/attendance-backend-go/internal/pkg/jwt"
)

type service struct {
	users      user.Repository
	engine     attendance.Service
	jwtService jwt.Service
	logger     *slog.Logger
}

// NewService creates the auth service. Login and logout double as the
// attendance trigger for staff accounts.
func NewService(users user.Repository, engine attendance.Service, jwtService jwt.Service, logger *slog.Logger) auth.Service {
	return &service{
		users:      users,
		engine:     engine,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Signup implements auth.Service. Accounts self-register as staff; admin
// accounts are provisioned out of band.
func (s *service) Signup(ctx context.Context, req auth.SignupRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Department:   req.Department,
		PasswordHash: string(hash),
		Role:         user.RoleStaff,
		Status:       user.StatusActive,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return created.ToResponse(), nil
}

// Login implements auth.Service. For staff the successful authentication is
// also the day's login event; attendance failures other than validation are
// absorbed so a broken side channel never locks anyone out.
func (s *service) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return auth.LoginResponse{}, auth.ErrAccountInactive
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	resp := auth.LoginResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
		User:                  u.ToResponse(),
	}

	if u.Role == user.RoleStaff {
		resp.TodayAttendance = s.recordLogin(ctx, u.ID)
	}

	return resp, nil
}

// Logout implements auth.Service.
func (s *service) Logout(ctx context.Context, userID string) (auth.LogoutResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return auth.LogoutResponse{}, err
	}

	resp := auth.LogoutResponse{}
	if u.Role == user.RoleStaff {
		resp.TodayAttendance = s.recordLogout(ctx, u.ID)
	}

	return resp, nil
}

// recordLogin runs the attendance login event. A repeated login the same day
// is a normal occurrence, not a failure; any other engine error is logged
// and the authentication still succeeds.
func (s *service) recordLogin(ctx context.Context, userID string) *attendance.RecordResponse {
	rec, err := s.engine.RecordLogin(ctx, userID)
	switch {
	case err == nil, errors.Is(err, attendance.ErrDuplicateLogin):
		return &rec
	default:
		s.logger.Error("attendance login event failed",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil
	}
}

func (s *service) recordLogout(ctx context.Context, userID string) *attendance.RecordResponse {
	rec, err := s.engine.RecordLogout(ctx, userID)
	switch {
	case err == nil, errors.Is(err, attendance.ErrDuplicateLogout):
		return &rec
	case errors.Is(err, attendance.ErrRecordNotFound):
		// Logging out without ever logging in today; nothing to close.
		return nil
	default:
		s.logger.Error("attendance logout event failed",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil
	}
}
