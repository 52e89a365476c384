package ports

import (
	"context"

	"github.com/crud-app/records-api/internal/core/domain"
)

// SessionStore keeps server-side sessions. Get returns domain.ErrUnauthenticated
// for unknown or expired ids.
type SessionStore interface {
	Create(ctx context.Context, user domain.SessionUser) (string, error)
	Get(ctx context.Context, id string) (*domain.SessionUser, error)
	Destroy(ctx context.Context, id string) error
}
