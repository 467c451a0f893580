// Package metrics defines and registers all custom Prometheus metrics of
// ReparaFácil, for both the client core and the sandbox backend. It is the
// single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reparafacil"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Client metrics ────────────────────────────────────────────────────────────

// ClientAuthOperationsTotal counts session workflow operations.
// Labels:
//   - operation: "login", "register", "fetch_profile", "logout"
//   - result: "success" or "failure"
var ClientAuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "auth_operations_total",
		Help:      "Total number of session workflow operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ClientProfileFollowUpsTotal counts auth/me calls issued because an auth
// response carried no usable user.
var ClientProfileFollowUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "profile_followups_total",
		Help:      "Total number of follow-up profile fetches after login or signup, by result.",
	},
	[]string{"result"},
)

// ClientRemoteRequestDuration measures remote API calls.
// Labels:
//   - endpoint: logical operation (e.g. "login", "list_services")
//   - code: HTTP status code, or "error" when no response was received
var ClientRemoteRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "code"},
)

// ── Sandbox metrics ───────────────────────────────────────────────────────────

// AccountsRegisteredTotal counts sandbox signups.
// Label:
//   - role: "client" or "technician"
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts sandbox login attempts by result.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ServiceRequestsCreatedTotal counts newly raised repair requests.
// Label:
//   - type: appliance type as sent by the client (e.g. "Lavadora")
var ServiceRequestsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "service_requests_created_total",
		Help:      "Total number of service requests created, by appliance type.",
	},
	[]string{"type"},
)

// StatusTransitionsTotal counts applied status changes.
// Label:
//   - status: the new status (e.g. "in_progress")
var StatusTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "status_transitions_total",
		Help:      "Total number of service request status transitions, by new status.",
	},
	[]string{"status"},
)

// AssignmentsTotal counts assignment job outcomes.
// Label:
//   - result: "assigned", "no_technician", "skipped", "error"
var AssignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "assignments_total",
		Help:      "Total number of technician assignment jobs, by result.",
	},
	[]string{"result"},
)

// AssignmentQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AssignmentQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "assignment_queue_depth",
		Help:      "Current number of assignment jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AssignmentDuration measures how long a single assignment job takes.
var AssignmentDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sandbox",
		Name:      "assignment_duration_seconds",
		Help:      "Duration of assignment job processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
