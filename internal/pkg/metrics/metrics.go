package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "realestate"

// Login outcomes
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeLocked             = "locked"
	OutcomeError              = "error"
)

// Metrics holds the security counters exported at /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoginAttempts    *prometheus.CounterVec
	AccountLockouts  prometheus.Counter
	OwnershipDenials prometheus.Counter
	TokenValidations *prometheus.CounterVec
	registry         *prometheus.Registry
}

// New creates the counters on a dedicated registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		AccountLockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "account_lockouts_total",
			Help:      "Total number of accounts transitioned to locked",
		}),
		OwnershipDenials: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realestate",
			Name:      "ownership_denials_total",
			Help:      "Total number of scoped writes that matched no owned row",
		}),
		TokenValidations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "token_validations_total",
				Help:      "Total number of bearer token validations by result",
			},
			[]string{"result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.LoginAttempts, m.AccountLockouts, m.OwnershipDenials, m.TokenValidations)
	return m
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLogin counts a login attempt
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveLockout counts a transition to locked
func (m *Metrics) ObserveLockout() {
	if m == nil {
		return
	}
	m.AccountLockouts.Inc()
}

// ObserveOwnershipDenial counts a scoped write that matched nothing
func (m *Metrics) ObserveOwnershipDenial() {
	if m == nil {
		return
	}
	m.OwnershipDenials.Inc()
}

// ObserveTokenValidation counts a token validation with result valid or invalid
func (m *Metrics) ObserveTokenValidation(valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.TokenValidations.WithLabelValues(result).Inc()
}
