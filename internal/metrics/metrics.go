package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry with the health check collectors.
type Metrics struct {
	registry    *prometheus.Registry
	checks      *prometheus.CounterVec
	lastSuccess prometheus.Gauge
}

func New(version string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pressillion_health_checks_total",
			Help: "Signed health checks by verification outcome",
		}, []string{"outcome"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pressillion_health_last_success_timestamp_seconds",
			Help: "Last successful health check (epoch seconds)",
		}),
	}

	buildInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pressillion_health_build_info",
		Help: "Build information",
	}, []string{"version", "go"})
	buildInfo.WithLabelValues(version, runtime.Version()).Set(1)

	m.registry.MustRegister(
		m.checks,
		m.lastSuccess,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveCheck records one verification outcome at time at.
func (m *Metrics) ObserveCheck(outcome string, at time.Time) {
	m.checks.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.lastSuccess.Set(float64(at.Unix()))
	}
}

// Checks returns the counter for outcome.
func (m *Metrics) Checks(outcome string) prometheus.Counter {
	return m.checks.WithLabelValues(outcome)
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
