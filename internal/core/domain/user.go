package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	MinPasswordLen = 6
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignUp      = errors.New("invalid signup details")
	ErrEmailNotVerified   = errors.New("please verify your email first")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrResetTokenMissing  = errors.New("reset token is missing")
	ErrResetNotAllowed    = errors.New("account is not active, please verify your email first")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfModification   = errors.New("cannot modify your own account")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrVerificationEmail  = errors.New("failed to send verification email")
	ErrResetEmail         = errors.New("failed to send password reset email")
)

// User models an account. Token fields hold SHA-256 hashes, never the raw values.
type User struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	PasswordHash             string     `json:"-"`
	Role                     string     `json:"role"`
	IsActive                 bool       `json:"is_active"`
	IsEmailVerified          bool       `json:"is_email_verified"`
	EmailVerificationToken   string     `json:"-"`
	EmailVerificationExpires time.Time  `json:"-"`
	ResetPasswordToken       string     `json:"-"`
	ResetPasswordExpires     time.Time  `json:"-"`
	LastLogin                *time.Time `json:"last_login,omitempty"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// CanSignIn reports whether the account may open a session.
func (u *User) CanSignIn() error {
	if !u.IsEmailVerified {
		return ErrEmailNotVerified
	}
	if !u.IsActive {
		return ErrAccountInactive
	}
	return nil
}

// SessionUser is the identity carried by a session or bearer token.
type SessionUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session returns the identity snapshot stored for u.
func (u *User) Session() SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
