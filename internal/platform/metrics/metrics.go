package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the platform-wide Prometheus metrics shared by handlers.
// Module-specific metrics live next to their module.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec

	RegistrationsStarted   *prometheus.CounterVec
	RegistrationsCompleted *prometheus.CounterVec
	StepCompletions        *prometheus.CounterVec
	SettlementOutcomes     *prometheus.CounterVec
	CodesRequested         prometheus.Counter
	CodesVerified          *prometheus.CounterVec
}

// New creates and registers all platform metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sportsreg_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),

		RegistrationsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sportsreg_registrations_started_total",
			Help: "Total registration wizards started, by user type",
		}, []string{"user_type"}),

		RegistrationsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sportsreg_registrations_completed_total",
			Help: "Total registrations reaching the Complete state, by user type",
		}, []string{"user_type"}),

		StepCompletions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sportsreg_step_completions_total",
			Help: "Total step completions by user type and step",
		}, []string{"user_type", "step"}),

		SettlementOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sportsreg_settlement_outcomes_total",
			Help: "Settlement outcomes by mode",
		}, []string{"mode"}),

		CodesRequested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sportsreg_verification_codes_requested_total",
			Help: "Total verification codes requested",
		}),

		CodesVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sportsreg_verification_attempts_total",
			Help: "Verification attempts by result",
		}, []string{"result"}), // result: "verified", "invalid", "expired"
	}
}

// ObserveRequest records one HTTP request observation. Nil-safe so tests can
// pass a nil Metrics.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, status).Observe(d.Seconds())
	}
}

// IncrementStarted records a new wizard session.
func (m *Metrics) IncrementStarted(userType string) {
	if m != nil {
		m.RegistrationsStarted.WithLabelValues(userType).Inc()
	}
}

// IncrementCompleted records a registration reaching Complete.
func (m *Metrics) IncrementCompleted(userType string) {
	if m != nil {
		m.RegistrationsCompleted.WithLabelValues(userType).Inc()
	}
}

// IncrementStep records a successful step completion.
func (m *Metrics) IncrementStep(userType, step string) {
	if m != nil {
		m.StepCompletions.WithLabelValues(userType, step).Inc()
	}
}

// IncrementSettlement records a settlement mode selection.
func (m *Metrics) IncrementSettlement(mode string) {
	if m != nil {
		m.SettlementOutcomes.WithLabelValues(mode).Inc()
	}
}

// IncrementCodeRequested records a verification code request.
func (m *Metrics) IncrementCodeRequested() {
	if m != nil {
		m.CodesRequested.Inc()
	}
}

// IncrementCodeAttempt records a verification attempt outcome.
func (m *Metrics) IncrementCodeAttempt(result string) {
	if m != nil {
		m.CodesVerified.WithLabelValues(result).Inc()
	}
}
