package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/crud-app/records-api/internal/core/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, ttl), mr
}

func TestSessionStore_CreateGetDestroy(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()
	user := domain.SessionUser{ID: "64b7f0c2a1b2c3d4e5f60718", Name: "Alice", Email: "alice@example.com", Role: domain.RoleUser}

	id, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected session id")
	}
	if !mr.Exists("sess:" + id) {
		t.Fatalf("expected session key in redis")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if *got != user {
		t.Fatalf("expected %+v, got %+v", user, *got)
	}

	if err := store.Destroy(ctx, id); err != nil {
		t.Fatalf("Destroy returned error: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected destroyed session to be rejected, got %v", err)
	}
	if err := store.Destroy(ctx, id); err != nil {
		t.Fatalf("second Destroy should be a no-op, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	id, err := store.Create(ctx, domain.SessionUser{ID: "x"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if ttl := mr.TTL("sess:" + id); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, id); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected expired session to be rejected, got %v", err)
	}
}

func TestSessionStore_UnknownID(t *testing.T) {
	store, _ := newTestStore(t, 0)

	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := store.Get(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for empty id, got %v", err)
	}
}

func TestSessionStore_DistinctIDs(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	a, _ := store.Create(context.Background(), domain.SessionUser{ID: "a"})
	b, _ := store.Create(context.Background(), domain.SessionUser{ID: "a"})
	if a == b {
		t.Fatalf("expected distinct session ids")
	}
}

func counterValue(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

// Session metrics only ever count up, so TTL expiry and other instances
// cannot skew them.
func TestSessionStore_CountsLifecycle(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()
	created := counterValue(t, "records_sessions_created_total")
	destroyed := counterValue(t, "records_sessions_destroyed_total")

	expiring, _ := store.Create(ctx, domain.SessionUser{ID: "a"})
	stale, _ := store.Create(ctx, domain.SessionUser{ID: "b"})
	mr.FastForward(2 * time.Minute)
	_ = store.Destroy(ctx, expiring)

	fresh, _ := store.Create(ctx, domain.SessionUser{ID: "c"})
	_ = store.Destroy(ctx, fresh)
	_ = store.Destroy(ctx, stale)

	if got := counterValue(t, "records_sessions_created_total") - created; got != 3 {
		t.Fatalf("expected 3 created sessions, got %v", got)
	}
	if got := counterValue(t, "records_sessions_destroyed_total") - destroyed; got != 1 {
		t.Fatalf("expected only the live session destroy to count, got %v", got)
	}
}
