package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess     = "success"
	OutcomeNotFound    = "not_found"
	OutcomeMismatch    = "mismatch"
	OutcomeConflict    = "conflict"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
)

// AuthMetrics records authentication attempts and credential hashing cost.
type AuthMetrics struct {
	attempts *prometheus.CounterVec
	hashing  *prometheus.HistogramVec
}

// NewAuthMetrics registers the auth metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewAuthMetrics(reg prometheus.Registerer) *AuthMetrics {
	if reg == nil {
		return &AuthMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Authentication attempts by principal kind, operation and outcome.",
	}, []string{"kind", "operation", "outcome"})
	hashing := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_password_hash_seconds",
		Help:    "Time spent hashing or verifying passwords.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	}, []string{"scheme"})
	reg.MustRegister(attempts, hashing)
	return &AuthMetrics{attempts: attempts, hashing: hashing}
}

// IncAttempt counts one attempt of operation for kind with the given outcome.
func (a *AuthMetrics) IncAttempt(kind, operation, outcome string) {
	if a == nil || a.attempts == nil {
		return
	}
	a.attempts.WithLabelValues(normalizeLabel(kind), normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// ObserveHash records how long a hash or verify call took for scheme.
func (a *AuthMetrics) ObserveHash(scheme string, duration time.Duration) {
	if a == nil || a.hashing == nil {
		return
	}
	a.hashing.WithLabelValues(normalizeLabel(scheme)).Observe(duration.Seconds())
}
