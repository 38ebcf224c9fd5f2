// Package metrics defines the custom Prometheus metrics of the LMS API. It is
// the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lms"

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentsCreatedTotal counts enrollments created.
// Label:
//   - source: "direct" (free enroll) or "payment" (bridged from a checkout)
var EnrollmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_created_total",
		Help:      "Total number of enrollments created, by source.",
	},
	[]string{"source"},
)

// EnrollmentsCompletedTotal counts enrollments that reached 100% progress.
var EnrollmentsCompletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_completed_total",
		Help:      "Total number of enrollments moved to completed.",
	},
)

// ModuleCompletionsTotal counts recorded module completions, repeats included.
var ModuleCompletionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "module_completions_total",
		Help:      "Total number of module completion requests applied.",
	},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentTransitionsTotal counts payment ledger writes.
// Label:
//   - status: "pending" (checkout opened), "complete" or "failed"
var PaymentTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_transitions_total",
		Help:      "Total number of payment transactions entering each status.",
	},
	[]string{"status"},
)

// WebhookEventsTotal counts provider webhook deliveries.
// Label:
//   - outcome: "accepted", "duplicate", "ignored" or "rejected"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of payment webhook deliveries, by outcome.",
	},
	[]string{"outcome"},
)

// DispatcherQueueDepth tracks notifications waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var DispatcherQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dispatcher_queue_depth",
		Help:      "Current number of payment notifications pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)

// ── Certificate metrics ───────────────────────────────────────────────────────

var CertificatesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_issued_total",
		Help:      "Total number of certificates issued.",
	},
)

// ── External calls ────────────────────────────────────────────────────────────

// ExternalCallDuration measures calls to third-party providers.
// Labels:
//   - provider: "stripe", "openai" or "sendgrid"
//   - outcome: "ok" or "error"
var ExternalCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "external_call_duration_seconds",
		Help:      "Duration of outbound calls to external providers.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "outcome"},
)

// ReconcileRunsTotal counts scheduled reconciliation runs.
// Label:
//   - job: "payments" or "enrolled_counts"
//   - result: "ok" or "error"
var ReconcileRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_runs_total",
		Help:      "Total number of scheduled reconciliation runs.",
	},
	[]string{"job", "result"},
)
