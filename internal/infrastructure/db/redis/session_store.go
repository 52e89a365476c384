package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/crud-app/records-api/internal/api/metrics"
	"github.com/crud-app/records-api/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps sessions as JSON blobs that expire after ttl.
// Key format: sess:<uuid>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create stores user under a fresh random id and returns the id.
func (s *SessionStore) Create(ctx context.Context, user domain.SessionUser) (string, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	id := uuid.NewString()
	if err := s.client.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	metrics.SessionsCreatedTotal.Inc()
	return id, nil
}

// Get loads a session. Unknown and expired ids yield domain.ErrUnauthenticated.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.SessionUser, error) {
	if id == "" {
		return nil, domain.ErrUnauthenticated
	}
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var user domain.SessionUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

// Destroy removes the session. Destroying an unknown id is not an error.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	if n > 0 {
		metrics.SessionsDestroyedTotal.Inc()
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "sess:" + id
}
