package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

const (
	testUserID  = "aaaaaaaaaaaaaaaaaaaaaaaa"
	testAdminID = "ffffffffffffffffffffffff"
)

type stubAuthService struct {
	signUpFn         func(ctx context.Context, name, email, password string) (*domain.User, error)
	verifyEmailFn    func(ctx context.Context, email, otp string) (*domain.User, error)
	resendOTPFn      func(ctx context.Context, email string) error
	signInFn         func(ctx context.Context, email, password string) (*ports.SignInResult, error)
	forgotPasswordFn func(ctx context.Context, email string) (*ports.ForgotPasswordResult, error)
	resetPasswordFn  func(ctx context.Context, token, password, confirm string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.signUpFn(ctx, name, email, password)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, email, otp string) (*domain.User, error) {
	return s.verifyEmailFn(ctx, email, otp)
}

func (s *stubAuthService) ResendOTP(ctx context.Context, email string) error {
	return s.resendOTPFn(ctx, email)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*ports.SignInResult, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) (*ports.ForgotPasswordResult, error) {
	return s.forgotPasswordFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return s.resetPasswordFn(ctx, token, password, confirm)
}

func (s *stubAuthService) ParseToken(string) (*domain.SessionUser, error) {
	return nil, domain.ErrUnauthenticated
}

type stubSessions struct {
	started []domain.SessionUser
	ended   int
	err     error
}

func (s *stubSessions) Start(_ echo.Context, user domain.SessionUser) error {
	if s.err != nil {
		return s.err
	}
	s.started = append(s.started, user)
	return nil
}

func (s *stubSessions) End(echo.Context) error {
	s.ended++
	return s.err
}

type stubRecordService struct {
	createFn func(ctx context.Context, ownerID string, in ports.RecordInput) (*domain.Record, error)
	listFn   func(ctx context.Context, ownerID string) ([]*domain.Record, error)
	getFn    func(ctx context.Context, ownerID, id string) (*domain.Record, error)
	updateFn func(ctx context.Context, ownerID, id string, in ports.RecordInput) (*domain.Record, error)
	deleteFn func(ctx context.Context, ownerID, id string) error
}

func (s *stubRecordService) Create(ctx context.Context, ownerID string, in ports.RecordInput) (*domain.Record, error) {
	return s.createFn(ctx, ownerID, in)
}

func (s *stubRecordService) List(ctx context.Context, ownerID string) ([]*domain.Record, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubRecordService) Get(ctx context.Context, ownerID, id string) (*domain.Record, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubRecordService) Update(ctx context.Context, ownerID, id string, in ports.RecordInput) (*domain.Record, error) {
	return s.updateFn(ctx, ownerID, id, in)
}

func (s *stubRecordService) Delete(ctx context.Context, ownerID, id string) error {
	return s.deleteFn(ctx, ownerID, id)
}

// stubAdminService embeds the interface so tests only implement what they call.
type stubAdminService struct {
	ports.AdminService
	dashboardFn    func(ctx context.Context) (*ports.Dashboard, error)
	listUsersFn    func(ctx context.Context, page, limit int) (*ports.UserPage, error)
	updateRoleFn   func(ctx context.Context, actorID, userID, role string) (*domain.User, error)
	setStatusFn    func(ctx context.Context, actorID, userID string, active bool) (*domain.User, error)
	deleteUserFn   func(ctx context.Context, actorID, userID string) error
	updateRecordFn func(ctx context.Context, id string, in ports.RecordInput) (*domain.Record, error)
	deleteRecordFn func(ctx context.Context, id string) error
}

func (s *stubAdminService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	return s.dashboardFn(ctx)
}

func (s *stubAdminService) ListUsers(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	return s.listUsersFn(ctx, page, limit)
}

func (s *stubAdminService) UpdateUserRole(ctx context.Context, actorID, userID, role string) (*domain.User, error) {
	return s.updateRoleFn(ctx, actorID, userID, role)
}

func (s *stubAdminService) SetUserStatus(ctx context.Context, actorID, userID string, active bool) (*domain.User, error) {
	return s.setStatusFn(ctx, actorID, userID, active)
}

func (s *stubAdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	return s.deleteUserFn(ctx, actorID, userID)
}

func (s *stubAdminService) UpdateAnyRecord(ctx context.Context, id string, in ports.RecordInput) (*domain.Record, error) {
	return s.updateRecordFn(ctx, id, in)
}

func (s *stubAdminService) DeleteAnyRecord(ctx context.Context, id string) error {
	return s.deleteRecordFn(ctx, id)
}

// newTestContext builds an echo context for method/target with body sent as contentType.
func newTestContext(method, target, contentType, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withUser(c echo.Context, id, role string) {
	c.Set("session_user", &domain.SessionUser{ID: id, Name: "Test", Email: "test@example.com", Role: role})
}

func withAdmin(c echo.Context) {
	withUser(c, testAdminID, domain.RoleAdmin)
	c.Set("admin_user", &domain.User{ID: testAdminID, Role: domain.RoleAdmin, IsActive: true})
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected echo.HTTPError %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}
