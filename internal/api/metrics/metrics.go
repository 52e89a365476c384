// Package metrics defines and registers all custom Prometheus metrics for the
// records API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry through promauto,
// which is what the /metrics handler serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "records"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthEventsTotal counts account lifecycle events.
// Label:
//   - event: "signup", "verify_email", "signin", "signin_failed", "password_reset", "logout"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event type.",
	},
	[]string{"event"},
)

// SessionsCreatedTotal counts sessions written to the store.
var SessionsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Total number of sessions created.",
	},
)

// SessionsDestroyedTotal counts sessions removed on logout. Sessions that
// lapse through their TTL are not counted.
var SessionsDestroyedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_destroyed_total",
		Help:      "Total number of sessions destroyed before expiry.",
	},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// EmailsSentTotal counts outgoing account emails.
// Labels:
//   - kind: "verification" or "password_reset"
//   - result: "ok" or "error"
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of account emails, by kind and delivery result.",
	},
	[]string{"kind", "result"},
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordOperationsTotal counts successful record mutations.
// Labels:
//   - op: "create", "update", "delete"
//   - scope: "owner" for ownership-scoped calls, "admin" for maintenance calls
var RecordOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_operations_total",
		Help:      "Total number of record mutations, by operation and scope.",
	},
	[]string{"op", "scope"},
)

// UsersDeletedTotal counts accounts removed by administrators.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts deleted by administrators.",
	},
)
