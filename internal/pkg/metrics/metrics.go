// Package metrics defines and registers all custom Prometheus metrics for the
// portal front server. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionHydrationsTotal counts hydrations of a persisted record.
// Labels:
//   - record: the storage key hydrated ("user", "business")
//   - result: "ok", "absent", "corrupt" (purged), or "error" (storage read failed)
var SessionHydrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_hydrations_total",
		Help:      "Total number of persisted record hydrations, by record and result.",
	},
	[]string{"record", "result"},
)

// SessionRecoveriesTotal counts one-shot recovery attempts for inconsistent
// identity/credential state.
// Label:
//   - result: "attempted" or "exhausted" (the one-shot flag was already spent)
var SessionRecoveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_recoveries_total",
		Help:      "Total number of session recovery decisions, by result.",
	},
	[]string{"result"},
)

// ActiveSessions tracks client sessions held in the in-process registry.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of client sessions held in memory.",
	},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Label:
//   - outcome: "pending", "redirect_login", "redirect_unauthorized", "render"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by outcome.",
	},
	[]string{"outcome"},
)

// PathRestoresTotal counts mount-time redirects to the remembered path.
var PathRestoresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "path_restores_total",
		Help:      "Total number of mount-time redirects to the last visited path.",
	},
)

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts auth gateway calls to the remote backend.
// Labels:
//   - operation: gateway operation (e.g. "login", "verify_email")
//   - code: envelope returnCode, or "transport_error"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of auth gateway calls, by operation and envelope code.",
	},
	[]string{"operation", "code"},
)

// GatewayRequestDuration measures round-trip latency of auth gateway calls.
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of auth gateway calls to the remote backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Path visit queue metrics ─────────────────────────────────────────────────

// VisitQueueDepth is the number of page visits waiting to be persisted.
var VisitQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "visit_queue_depth",
		Help:      "Number of page visits buffered for lastPath persistence.",
	},
)

// VisitWriteErrorsTotal counts visits the queue failed to persist.
var VisitWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visit_write_errors_total",
		Help:      "Total number of page visits that could not be persisted.",
	},
)
