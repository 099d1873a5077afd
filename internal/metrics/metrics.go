// Package metrics defines the Prometheus collectors for the focus session
// pipeline. HTTP request metrics come from the echo middleware; everything
// session- and intervention-specific lives here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session Lifecycle Metrics
var (
	// SessionsOpenedTotal counts app_open events.
	SessionsOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_opened_total",
			Help: "Total sessions opened",
		},
	)

	// SessionActionsTotal counts recorded actions by action type and whether
	// the action was the first of its session.
	SessionActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_actions_total",
			Help: "Total session actions by action type and first/subsequent",
		},
		[]string{"action_type", "first"},
	)

	// ReentryLatencySeconds tracks app-open-to-first-action latency.
	ReentryLatencySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reentry_latency_seconds",
			Help:    "Time from app open to first user action in seconds",
			Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)
)

// Exit Analysis Metrics
var (
	// SessionsClosedTotal counts closes by early-exit and high-risk flags.
	SessionsClosedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessions_closed_total",
			Help: "Total sessions closed by early_exit and high_risk flags",
		},
		[]string{"early_exit", "high_risk"},
	)

	// PreExitInactionSeconds tracks inaction time before close.
	PreExitInactionSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pre_exit_inaction_seconds",
			Help:    "Time from last action (or open) to app close in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)
)

// Intervention Metrics
var (
	// InterventionChecksTotal counts inaction checks by outcome
	// (no_session/under_threshold/already_triggered/control/triggered/error).
	InterventionChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intervention_checks_total",
			Help: "Total intervention checks by outcome",
		},
		[]string{"outcome"},
	)

	// InterventionsTriggeredTotal counts created intervention logs.
	InterventionsTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interventions_triggered_total",
			Help: "Total interventions triggered (experimental cohort only)",
		},
	)

	// InterventionResponseSeconds tracks time from trigger to the next
	// recorded action.
	InterventionResponseSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intervention_response_seconds",
			Help:    "Time from intervention trigger to the first following action",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
		},
	)
)

// Event Sink Metrics
var (
	// EventPublishFailuresTotal counts telemetry publish failures by channel.
	EventPublishFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_failures_total",
			Help: "Total event publish failures by channel",
		},
		[]string{"channel"},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "go_version"},
	)
)
