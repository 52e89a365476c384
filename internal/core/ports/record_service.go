package ports

import (
	"context"

	"github.com/crud-app/records-api/internal/core/domain"
)

// RecordInput is the raw record payload. Age stays a string so form values,
// JSON strings and JSON numbers share one validation path.
type RecordInput struct {
	Username       string
	Age            string
	Specialization string
	Address        string
}

// RecordService defines ownership-scoped record operations.
type RecordService interface {
	Create(ctx context.Context, ownerID string, in RecordInput) (*domain.Record, error)
	List(ctx context.Context, ownerID string) ([]*domain.Record, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Record, error)
	Update(ctx context.Context, ownerID, id string, in RecordInput) (*domain.Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}
