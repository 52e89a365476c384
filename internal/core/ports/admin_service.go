package ports

import (
	"context"

	"github.com/crud-app/records-api/internal/core/domain"
)

// RecordWithOwner pairs a record with its owner's public details.
type RecordWithOwner struct {
	Record     *domain.Record
	OwnerName  string
	OwnerEmail string
}

// Dashboard is the admin landing view.
type Dashboard struct {
	TotalUsers    int64
	ActiveUsers   int64
	VerifiedUsers int64
	TotalRecords  int64
	RecentUsers   []*domain.User
	RecentRecords []RecordWithOwner
}

// Stats is the site-wide statistics block.
type Stats struct {
	TotalUsers       int64
	ActiveUsers      int64
	VerifiedUsers    int64
	AdminUsers       int64
	TotalRecords     int64
	UsersThisMonth   int64
	RecordsThisMonth int64
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users      []*domain.User
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// AdminService defines operations reserved for administrators. actorID is the
// id of the admin performing the call.
type AdminService interface {
	Authorize(ctx context.Context, userID string) (*domain.User, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)
	UpdateUserRole(ctx context.Context, actorID, userID, role string) (*domain.User, error)
	SetUserStatus(ctx context.Context, actorID, userID string, active bool) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	Stats(ctx context.Context) (*Stats, error)
	UpdateAnyRecord(ctx context.Context, id string, in RecordInput) (*domain.Record, error)
	DeleteAnyRecord(ctx context.Context, id string) error
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, bool, error)
}
