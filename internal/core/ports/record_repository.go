package ports

import (
	"context"
	"time"

	"github.com/crud-app/records-api/internal/core/domain"
)

// RecordRepository defines persistence operations for data records.
// Wherever ownerID is accepted, an empty value means the call is not scoped
// to an owner; only the admin maintenance paths pass "".
type RecordRepository interface {
	Create(ctx context.Context, r *domain.Record) (*domain.Record, error)
	// ListByOwner returns the owner's records, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Record, error)
	FindByID(ctx context.Context, id, ownerID string) (*domain.Record, error)
	Update(ctx context.Context, id, ownerID string, fields domain.RecordFields) (*domain.Record, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	// Count returns the number of records created at or after since (zero = all).
	Count(ctx context.Context, since time.Time) (int64, error)
	Recent(ctx context.Context, n int) ([]*domain.Record, error)
}
