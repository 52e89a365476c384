package ports

import (
	"context"

	"github.com/crud-app/records-api/internal/core/domain"
)

// SignInResult is returned after a successful sign in. Token is empty when
// bearer tokens are disabled.
type SignInResult struct {
	User  *domain.User
	Token string
}

// ForgotPasswordResult carries the reset URL only when it may be shown to
// the caller (development with the console mailer).
type ForgotPasswordResult struct {
	ResetURL string
}

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	VerifyEmail(ctx context.Context, email, otp string) (*domain.User, error)
	ResendOTP(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token, password, confirm string) error
	// ParseToken validates a bearer token and returns the identity it carries.
	ParseToken(token string) (*domain.SessionUser, error)
}
