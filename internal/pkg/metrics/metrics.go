package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Core engine metrics, exposed on the HTTP server's /metrics endpoint.
var (
	// SamplesTotal counts telemetry submissions by outcome
	// (applied, stale, no_active_flight, malformed, unauthorized).
	SamplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyward_samples_total",
			Help: "Total number of telemetry samples received, by outcome.",
		},
		[]string{"outcome"},
	)

	// FlightEventsTotal counts sticky events the classifier fired.
	FlightEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyward_flight_events_total",
			Help: "Total number of classified flight events, by type.",
		},
		[]string{"event"},
	)

	// SettlementsTotal counts settlement attempts by status
	// (settled, pending_retry, duplicate).
	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyward_settlements_total",
			Help: "Total number of settlement attempts, by status.",
		},
		[]string{"status"},
	)

	// SettlementDuration measures the end-to-end settlement latency,
	// including collaborator writes.
	SettlementDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skyward_settlement_duration_seconds",
			Help:    "Latency of settling a completed flight.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ActiveSessions tracks the number of non-completed flight sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyward_active_sessions",
			Help: "Number of flight sessions not yet completed.",
		},
	)

	// CompaniesConnected tracks how many companies the watchdog
	// currently considers connected.
	CompaniesConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyward_companies_connected",
			Help: "Number of companies with a live simulator link.",
		},
	)
)

func init() {
	prometheus.MustRegister(SamplesTotal)
	prometheus.MustRegister(FlightEventsTotal)
	prometheus.MustRegister(SettlementsTotal)
	prometheus.MustRegister(SettlementDuration)
	prometheus.MustRegister(ActiveSessions)
	prometheus.MustRegister(CompaniesConnected)
}
