package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync/attendance-backend-go/internal/config"
	"github.com/staffsync/attendance-backend-go/internal/domain/attendance"
	"github.com/staffsync/attendance-backend-go/internal/domain/auth"
	"github.com/staffsync/attendance-backend-go/internal/domain/notification"
	"github.com/staffsync/attendance-backend-go/internal/domain/user"
	"github.com/staffsync/attendance-backend-go/internal/pkg/clock"
	"github.com/staffsync/attendance-backend-go/internal/pkg/jwt"
)

// ============= Fake services =============

type fakeAuthService struct {
	signupResp user.UserResponse
	signupErr  error
	loginResp  auth.LoginResponse
	loginErr   error
	logoutResp auth.LogoutResponse
}

func (s *fakeAuthService) Signup(_ context.Context, _ auth.SignupRequest) (user.UserResponse, error) {
	return s.signupResp, s.signupErr
}

func (s *fakeAuthService) Login(_ context.Context, _ auth.LoginRequest) (auth.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *fakeAuthService) Logout(_ context.Context, _ string) (auth.LogoutResponse, error) {
	return s.logoutResp, nil
}

type fakeEngine struct {
	attendance.Service

	leaveResp attendance.RecordResponse
	leaveErr  error
	listResp  attendance.ListResponse
	mineResp  attendance.MyAttendanceResponse
	sweepResp attendance.SweepResult
	sweptAt   time.Time
}

func (e *fakeEngine) MarkLeave(_ context.Context, _ string, _ attendance.MarkLeaveRequest) (attendance.RecordResponse, error) {
	return e.leaveResp, e.leaveErr
}

func (e *fakeEngine) ListForDate(_ context.Context, _ attendance.ListRequest) (attendance.ListResponse, error) {
	return e.listResp, nil
}

func (e *fakeEngine) GetMyAttendance(_ context.Context, _ string) (attendance.MyAttendanceResponse, error) {
	return e.mineResp, nil
}

func (e *fakeEngine) RunAbsenceSweep(_ context.Context, date time.Time) (attendance.SweepResult, error) {
	e.sweptAt = date
	return e.sweepResp, nil
}

type fakeNotificationSvc struct {
	notification.Service

	listResp notification.ListResponse
}

func (s *fakeNotificationSvc) ListForUser(_ context.Context, _ string, _ int) (notification.ListResponse, error) {
	return s.listResp, nil
}

// ============= Harness =============

type testRouter struct {
	router http.Handler
	jwtSvc jwt.Service
}

// routerTestNow is the fixed instant every test router observes.
var routerTestNow = time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)

func newTestRouter(authSvc auth.Service, engine attendance.Service, notifSvc notification.Service) testRouter {
	jwtSvc := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		Attendance: config.AttendanceConfig{
			CutoffTime: "09:00",
			Timezone:   "America/New_York",
		},
	}

	router := NewRouter(
		cfg,
		jwtSvc,
		NewAuthHandler(jwtSvc, authSvc),
		NewAttendanceHandler(engine, clock.Fixed(routerTestNow), cfg.Attendance),
		NewNotificationHandler(notifSvc),
	)
	return testRouter{router: router, jwtSvc: jwtSvc}
}

func (tr testRouter) tokenFor(t *testing.T, userID string, role user.Role) string {
	t.Helper()
	token, _, err := tr.jwtSvc.GenerateAccessToken(userID, userID+"@example.com", role)
	require.NoError(t, err)
	return token
}

func (tr testRouter) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	tr.router.ServeHTTP(rec, req)
	return rec
}

// ============= Tests =============

func TestRouter_SignupCreated(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{signupResp: user.UserResponse{ID: "u1", Role: "staff"}}, &fakeEngine{}, &fakeNotificationSvc{})

	rec := tr.do(t, http.MethodPost, "/api/v1/auth/signup", "", auth.SignupRequest{
		Name:       "Jane Staff",
		Email:      "jane@example.com",
		Phone:      "+6281234567890",
		Department: "Engineering",
		Password:   "s3cretpass",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{loginErr: auth.ErrInvalidCredentials}, &fakeEngine{}, &fakeNotificationSvc{})

	rec := tr.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_LoginSetsRefreshCookie(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{loginResp: auth.LoginResponse{
		AccessToken:           "at",
		RefreshToken:          "rt",
		RefreshTokenExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		User:                  user.UserResponse{ID: "u1"},
	}}, &fakeEngine{}, &fakeNotificationSvc{})

	rec := tr.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{
		Email:    "jane@example.com",
		Password: "s3cretpass",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "refresh_token", cookies[0].Name)
	assert.Equal(t, "rt", cookies[0].Value)
}

func TestRouter_MarkLeaveRequiresAuth(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{}, &fakeEngine{}, &fakeNotificationSvc{})

	rec := tr.do(t, http.MethodPost, "/api/v1/attendance/leave", "", attendance.MarkLeaveRequest{Date: "2025-03-12"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MarkLeaveWithToken(t *testing.T) {
	engine := &fakeEngine{leaveResp: attendance.RecordResponse{ID: "rec-1", Status: "Leave"}}
	tr := newTestRouter(&fakeAuthService{}, engine, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "u1", user.RoleStaff)
	rec := tr.do(t, http.MethodPost, "/api/v1/attendance/leave", token, attendance.MarkLeaveRequest{Date: "2025-03-12"})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_MarkLeaveConflictMapsTo409(t *testing.T) {
	engine := &fakeEngine{leaveErr: attendance.ErrConflictingRecord}
	tr := newTestRouter(&fakeAuthService{}, engine, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "u1", user.RoleStaff)
	rec := tr.do(t, http.MethodPost, "/api/v1/attendance/leave", token, attendance.MarkLeaveRequest{Date: "2025-03-12"})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_AdminListForbiddenForStaff(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{}, &fakeEngine{}, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "u1", user.RoleStaff)
	rec := tr.do(t, http.MethodGet, "/api/v1/attendance", token, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AdminListAllowedForAdmin(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{}, &fakeEngine{listResp: attendance.ListResponse{Date: "2025-03-10"}}, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "a1", user.RoleAdmin)
	rec := tr.do(t, http.MethodGet, "/api/v1/attendance?date=2025-03-10", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LogoutRevokesAccessToken(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{}, &fakeEngine{}, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "u1", user.RoleStaff)

	rec := tr.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = tr.do(t, http.MethodGet, "/api/v1/attendance/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "revoked token must stop working")
}

func TestRouter_SweepDefaultsToInjectedClock(t *testing.T) {
	engine := &fakeEngine{sweepResp: attendance.SweepResult{Date: "2025-03-10"}}
	tr := newTestRouter(&fakeAuthService{}, engine, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "a1", user.RoleAdmin)
	rec := tr.do(t, http.MethodPost, "/api/v1/attendance/sweep", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, engine.sweptAt.Equal(routerTestNow), "sweep must use the handler clock, not ambient time")
}

func TestRouter_SweepExplicitDateParsedInPortalTimezone(t *testing.T) {
	engine := &fakeEngine{sweepResp: attendance.SweepResult{Date: "2025-03-10"}}
	tr := newTestRouter(&fakeAuthService{}, engine, &fakeNotificationSvc{})

	token := tr.tokenFor(t, "a1", user.RoleAdmin)
	rec := tr.do(t, http.MethodPost, "/api/v1/attendance/sweep", token, map[string]string{"date": "2025-03-10"})

	require.Equal(t, http.StatusOK, rec.Code)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, ny)
	assert.True(t, engine.sweptAt.Equal(want), "explicit date must name the portal-local day, got %v", engine.sweptAt)
}

func TestRouter_NotificationsMe(t *testing.T) {
	tr := newTestRouter(&fakeAuthService{}, &fakeEngine{}, &fakeNotificationSvc{
		listResp: notification.ListResponse{Total: 1, Notifications: []notification.EntryResponse{{ID: "n-1"}}},
	})

	token := tr.tokenFor(t, "u1", user.RoleStaff)
	rec := tr.do(t, http.MethodGet, "/api/v1/notifications/me", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "n-1")
}
