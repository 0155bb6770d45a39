// Package metrics exposes prometheus instrumentation for wizard runs and
// tunnel sessions.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// WizardRunsTotal counts finished wizard runs by terminal status.
	WizardRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitewright",
			Subsystem: "wizard",
			Name:      "runs_total",
			Help:      "Total number of wizard runs by wizard and result",
		},
		[]string{"wizard", "status"},
	)

	// SessionsActive tracks currently registered tunnel sessions.
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sitewright",
			Subsystem: "tunnel",
			Name:      "sessions_active",
			Help:      "Number of active tunnel sessions",
		},
	)

	// SessionsStartedTotal counts session bring-up attempts by result.
	SessionsStartedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitewright",
			Subsystem: "tunnel",
			Name:      "sessions_started_total",
			Help:      "Total number of session bring-up attempts by result",
		},
		[]string{"result"},
	)

	// TeardownFailuresTotal counts failed teardown sub-steps by action.
	TeardownFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sitewright",
			Subsystem: "tunnel",
			Name:      "teardown_failures_total",
			Help:      "Total number of failed teardown actions by action",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(
		WizardRunsTotal,
		SessionsActive,
		SessionsStartedTotal,
		TeardownFailuresTotal,
	)
}
