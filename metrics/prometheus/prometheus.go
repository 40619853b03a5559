// Package prometheus implements metrics.Metrics on a Prometheus
// registry.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warp/fare-engine/metrics"
)

type Metrics struct {
	registry *prometheus.Registry

	chargesAccepted *prometheus.CounterVec
	chargesRejected *prometheus.CounterVec
	topUps          *prometheus.CounterVec
	chargeDuration  prometheus.Histogram
	accounts        prometheus.Gauge
}

var _ metrics.Metrics = (*Metrics)(nil)

// New creates a Metrics backed by its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chargesAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fare",
			Name:      "charges_accepted_total",
			Help:      "Successful trip charges.",
		}, []string{"variant", "transfer"}),
		chargesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fare",
			Name:      "charges_rejected_total",
			Help:      "Rejected trip charges by reason.",
		}, []string{"variant", "reason"}),
		topUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fare",
			Name:      "topups_total",
			Help:      "Top-up attempts by result.",
		}, []string{"result"}),
		chargeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fare",
			Name:      "charge_duration_seconds",
			Help:      "End-to-end charge latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fare",
			Name:      "accounts_registered",
			Help:      "Number of registered accounts.",
		}),
	}

	m.registry.MustRegister(
		m.chargesAccepted,
		m.chargesRejected,
		m.topUps,
		m.chargeDuration,
		m.accounts,
	)
	return m
}

func (m *Metrics) ChargeAccepted(variant string, transfer bool) {
	label := "false"
	if transfer {
		label = "true"
	}
	m.chargesAccepted.WithLabelValues(variant, label).Inc()
}

func (m *Metrics) ChargeRejected(variant, reason string) {
	m.chargesRejected.WithLabelValues(variant, reason).Inc()
}

func (m *Metrics) TopUpAccepted() { m.topUps.WithLabelValues("accepted").Inc() }
func (m *Metrics) TopUpRejected() { m.topUps.WithLabelValues("rejected").Inc() }

func (m *Metrics) ObserveChargeDuration(d time.Duration) {
	m.chargeDuration.Observe(d.Seconds())
}

func (m *Metrics) SetAccounts(n int) { m.accounts.Set(float64(n)) }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
