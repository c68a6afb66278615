// Package metrics provides the centralized Prometheus metrics registry for
// the regatta platform.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BoatsRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "boats_registered_total",
		Help:      "Total number of boats registered across all events",
	})
	DuplicateSignupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "duplicate_signups_total",
		Help:      "Total number of signups rejected by the guard record",
	})
	InvitesRedeemedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "invites_redeemed_total",
		Help:      "Total number of crew invite codes redeemed",
	})
	BowAssignmentRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "bow_assignment_runs_total",
		Help:      "Total number of bow number reassignment runs",
	})
	ResultsComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "results_computed_total",
		Help:      "Total number of results computations",
	})
	TimingIntegrityErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "timing_integrity_errors_total",
		Help:      "Total number of boats excluded from results for corrupt timing data",
	})
	ProfileCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "profile_cache_hits_total",
		Help:      "Total number of identity profile cache hits",
	})
	ProfileCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "regatta_hub",
		Name:      "profile_cache_misses_total",
		Help:      "Total number of identity profile cache misses",
	})
)

// Gauge metrics
var (
	BoatsPerEvent = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "regatta_hub",
		Name:      "boats_per_event",
		Help:      "Number of registered boats per event",
	}, []string{"event_id"})
)

// Histogram metrics
var (
	BowAssignmentDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "regatta_hub",
		Name:      "bow_assignment_duration_seconds",
		Help:      "Duration of bow number reassignment runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ResultsComputationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "regatta_hub",
		Name:      "results_computation_duration_seconds",
		Help:      "Duration of results computation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BoatsRegisteredTotal)
		registry.MustRegister(DuplicateSignupsTotal)
		registry.MustRegister(InvitesRedeemedTotal)
		registry.MustRegister(BowAssignmentRunsTotal)
		registry.MustRegister(ResultsComputedTotal)
		registry.MustRegister(TimingIntegrityErrorsTotal)
		registry.MustRegister(ProfileCacheHitsTotal)
		registry.MustRegister(ProfileCacheMissesTotal)

		registry.MustRegister(BoatsPerEvent)

		registry.MustRegister(BowAssignmentDuration)
		registry.MustRegister(ResultsComputationDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBoatRegistered records a successful boat signup.
func RecordBoatRegistered(eventID string) {
	BoatsRegisteredTotal.Inc()
	BoatsPerEvent.WithLabelValues(eventID).Inc()
}

// RecordDuplicateSignup records a signup rejected by the guard.
func RecordDuplicateSignup() {
	DuplicateSignupsTotal.Inc()
}

// RecordInviteRedeemed records a redeemed crew invite.
func RecordInviteRedeemed() {
	InvitesRedeemedTotal.Inc()
}

// RecordBowAssignment records a bow reassignment run.
func RecordBowAssignment(durationSeconds float64) {
	BowAssignmentRunsTotal.Inc()
	BowAssignmentDuration.Observe(durationSeconds)
}

// RecordResultsComputed records a results computation.
func RecordResultsComputed(durationSeconds float64) {
	ResultsComputedTotal.Inc()
	ResultsComputationDuration.Observe(durationSeconds)
}

// RecordTimingIntegrityError records a boat dropped for corrupt timing.
func RecordTimingIntegrityError() {
	TimingIntegrityErrorsTotal.Inc()
}
