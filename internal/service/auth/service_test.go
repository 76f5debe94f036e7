package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/auth"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
	"github.com/staffsync/attendance-backend-go/internal/pkg/jwt"
)

// ============= Fakes =============

type fakeUserRepo struct {
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	u.ID = "u-" + u.Email
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) ListAdmins(_ context.Context) ([]user.User, error)   { return nil, nil }
func (r *fakeUserRepo) ListDepartments(_ context.Context) ([]string, error) { return nil, nil }

// fakeEngine records which attendance events fired and returns canned
// results per call.
type fakeEngine struct {
	attendance.Service

	loginCalls  []string
	logoutCalls []string
	loginResp   attendance.RecordResponse
	loginErr    error
	logoutResp  attendance.RecordResponse
	logoutErr   error
}

func (e *fakeEngine) RecordLogin(_ context.Context, userID string) (attendance.RecordResponse, error) {
	e.loginCalls = append(e.loginCalls, userID)
	return e.loginResp, e.loginErr
}

func (e *fakeEngine) RecordLogout(_ context.Context, userID string) (attendance.RecordResponse, error) {
	e.logoutCalls = append(e.logoutCalls, userID)
	return e.logoutResp, e.logoutErr
}

var testLogger = slog.New(slog.NewTextHandler(discard{}, nil))

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testJWT() jwt.Service {
	return jwt.NewJWTService("test-secret-key-for-unit-tests", "1h", "168h")
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func staffAccount(t *testing.T, password string) user.User {
	t.Helper()
	return user.User{
		ID:           "u1",
		Name:         "Jane Staff",
		Email:        "jane@example.com",
		Phone:        "+6281234567890",
		Department:   "Engineering",
		PasswordHash: hashOf(t, password),
		Role:         user.RoleStaff,
		Status:       user.StatusActive,
	}
}

// ============= Signup =============

func TestSignup_CreatesStaffAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, &fakeEngine{}, testJWT(), testLogger)

	resp, err := svc.Signup(context.Background(), auth.SignupRequest{
		Name:       "Jane Staff",
		Email:      "jane@example.com",
		Phone:      "+6281234567890",
		Department: "Engineering",
		Password:   "s3cretpass",
	})

	require.NoError(t, err)
	assert.Equal(t, "staff", resp.Role, "self-registration always yields staff")
	assert.Equal(t, "active", resp.Status)

	stored, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo(staffAccount(t, "whatever1"))
	svc := NewService(repo, &fakeEngine{}, testJWT(), testLogger)

	_, err := svc.Signup(context.Background(), auth.SignupRequest{
		Name:       "Other Jane",
		Email:      "jane@example.com",
		Phone:      "+6281234567891",
		Department: "Sales",
		Password:   "s3cretpass",
	})

	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestSignup_ValidationFailure(t *testing.T) {
	svc := NewService(newFakeUserRepo(), &fakeEngine{}, testJWT(), testLogger)

	_, err := svc.Signup(context.Background(), auth.SignupRequest{
		Name:     "No Email",
		Password: "short",
	})

	assert.Error(t, err)
}

// ============= Login =============

func TestLogin_StaffTriggersAttendance(t *testing.T) {
	engine := &fakeEngine{loginResp: attendance.RecordResponse{ID: "rec-1", Status: "Present"}}
	svc := NewService(newFakeUserRepo(staffAccount(t, "s3cretpass")), engine, testJWT(), testLogger)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, []string{"u1"}, engine.loginCalls)
	require.NotNil(t, resp.TodayAttendance)
	assert.Equal(t, "rec-1", resp.TodayAttendance.ID)
}

func TestLogin_AdminDoesNotTriggerAttendance(t *testing.T) {
	admin := staffAccount(t, "s3cretpass")
	admin.Role = user.RoleAdmin
	engine := &fakeEngine{}
	svc := NewService(newFakeUserRepo(admin), engine, testJWT(), testLogger)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	assert.Empty(t, engine.loginCalls)
	assert.Nil(t, resp.TodayAttendance)
}

func TestLogin_SecondLoginSameDaySucceeds(t *testing.T) {
	engine := &fakeEngine{
		loginResp: attendance.RecordResponse{ID: "rec-1", Status: "Present"},
		loginErr:  attendance.ErrDuplicateLogin,
	}
	svc := NewService(newFakeUserRepo(staffAccount(t, "s3cretpass")), engine, testJWT(), testLogger)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})

	require.NoError(t, err, "a repeated login is still a successful authentication")
	require.NotNil(t, resp.TodayAttendance)
	assert.Equal(t, "rec-1", resp.TodayAttendance.ID)
}

func TestLogin_EngineFailureDoesNotBlockAuth(t *testing.T) {
	engine := &fakeEngine{loginErr: errors.New("store unavailable")}
	svc := NewService(newFakeUserRepo(staffAccount(t, "s3cretpass")), engine, testJWT(), testLogger)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Nil(t, resp.TodayAttendance)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(staffAccount(t, "s3cretpass")), &fakeEngine{}, testJWT(), testLogger)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrongpass1",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), &fakeEngine{}, testJWT(), testLogger)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cretpass",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials, "unknown email and bad password are indistinguishable")
}

func TestLogin_InactiveAccount(t *testing.T) {
	u := staffAccount(t, "s3cretpass")
	u.Status = user.StatusInactive
	svc := NewService(newFakeUserRepo(u), &fakeEngine{}, testJWT(), testLogger)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})

	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

// ============= Logout =============

func TestLogout_StaffTriggersAttendance(t *testing.T) {
	minutes := 480
	engine := &fakeEngine{logoutResp: attendance.RecordResponse{ID: "rec-1", WorkDurationMinutes: &minutes}}
	svc := NewService(newFakeUserRepo(staffAccount(t, "s3cretpass")), engine, testJWT(), testLogger)

	resp, err := svc.Logout(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, engine.logoutCalls)
	require.NotNil(t, resp.TodayAttendance)
	assert.Equal(t, 480, *resp.TodayAttendance.WorkDurationMinutes)
}

func TestLogout_WithoutLoginStillSucceeds(t *testing.T) {
	engine := &fakeEngine{logoutErr: attendance.ErrRecordNotFound}
	svc := NewService(newFakeUserRepo(staffAccount(t, "s3cretpass")), engine, testJWT(), testLogger)

	resp, err := svc.Logout(context.Background(), "u1")

	require.NoError(t, err)
	assert.Nil(t, resp.TodayAttendance)
}
