package ports

import (
	"context"
	"time"

	"github.com/crud-app/records-api/internal/core/domain"
)

// UserCountFilter narrows Count. Nil pointers and zero values mean "any".
type UserCountFilter struct {
	Active       *bool
	Verified     *bool
	Role         string
	CreatedSince time.Time
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users it could find; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	// SetVerificationToken stores a fresh OTP hash and its expiry.
	SetVerificationToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	// MarkVerified activates the account only while tokenHash is the stored
	// OTP and its window is open at now. The token is cleared in the same write.
	MarkVerified(ctx context.Context, id, tokenHash string, now time.Time) (*domain.User, error)
	SetLastLogin(ctx context.Context, id string, at time.Time) error
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	// ResetPassword replaces the password of the user holding tokenHash while its
	// window is open at now and consumes the token in the same write.
	ResetPassword(ctx context.Context, tokenHash string, now time.Time, passwordHash string) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// List returns one page of users, newest first, and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	Count(ctx context.Context, filter UserCountFilter) (int64, error)
}
