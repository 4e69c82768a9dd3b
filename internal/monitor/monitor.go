// Package monitor exports PFDH signing and verification metrics to
// Prometheus.
package monitor

import (
	"errors"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lattice-schemes/signature"
	"lattice-schemes/signature/pfdh"
)

const (
	resultLabel = "result"
	familyLabel = "family"
)

// Sign outcomes.
const (
	ResultOK        = "ok"
	ResultExhausted = "exhausted"
	ResultError     = "error"
	ResultValid     = "valid"
	ResultInvalid   = "invalid"
)

// Monitor implements pfdh.Metrics on a private registry.
type Monitor struct {
	registry *prometheus.Registry
	signs    *prometheus.CounterVec
	verifies *prometheus.CounterVec
	attempts *prometheus.HistogramVec
	family   string
}

var _ pfdh.Metrics = (*Monitor)(nil)

// New registers the PFDH metrics for one scheme family.
func New(family string) *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		family:   family,
		signs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pfdh",
			Name:      "sign_total",
			Help:      "Number of Sign calls by outcome",
		}, []string{familyLabel, resultLabel}),
		verifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pfdh",
			Name:      "verify_total",
			Help:      "Number of Verify calls by outcome",
		}, []string{familyLabel, resultLabel}),
		attempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pfdh",
			Name:      "sign_attempts",
			Help:      "Preimage sampling attempts per successful Sign",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}, []string{familyLabel}),
	}
	m.registry.MustRegister(m.signs, m.verifies, m.attempts)
	return m
}

// ObserveSign implements pfdh.Metrics.
func (m *Monitor) ObserveSign(attempts int, err error) {
	switch {
	case err == nil:
		m.signs.WithLabelValues(m.family, ResultOK).Inc()
		m.attempts.WithLabelValues(m.family).Observe(float64(attempts))
	case errors.Is(err, signature.ErrSamplingExhausted):
		glog.Warningf("%s: signing exhausted after %d attempts", m.family, attempts)
		m.signs.WithLabelValues(m.family, ResultExhausted).Inc()
	default:
		m.signs.WithLabelValues(m.family, ResultError).Inc()
	}
}

// ObserveVerify implements pfdh.Metrics.
func (m *Monitor) ObserveVerify(valid bool) {
	result := ResultInvalid
	if valid {
		result = ResultValid
	}
	m.verifies.WithLabelValues(m.family, result).Inc()
}

// Signs returns the counter for a Sign outcome.
func (m *Monitor) Signs(result string) prometheus.Counter {
	return m.signs.WithLabelValues(m.family, result)
}

// Verifies returns the counter for a Verify outcome.
func (m *Monitor) Verifies(result string) prometheus.Counter {
	return m.verifies.WithLabelValues(m.family, result)
}

// Registry exposes the underlying registry.
func (m *Monitor) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve hosts /metrics on addr until the listener fails.
func (m *Monitor) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	glog.Infof("Hosting metrics on %v", addr)
	return http.ListenAndServe(addr, mux)
}
