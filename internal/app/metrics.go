package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/shadergrid/internal/compiler"
)

// metrics are registered on a per-App registry so several apps can live in one
// process.
type metrics struct {
	registry *prometheus.Registry

	// compilations counts compile runs by result (success, failure, load_error)
	compilations *prometheus.CounterVec
	// compileDuration tracks load plus compile latency
	compileDuration prometheus.Histogram
	// compileErrors counts diagnostics by kind
	compileErrors *prometheus.CounterVec
	// staleDropped counts results superseded before they were published
	staleDropped prometheus.Counter
	// published counts payloads handed to the preview publisher
	published prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &metrics{
		registry: reg,
		compilations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shadergrid_compilations_total",
			Help: "Total graph compilations by result",
		}, []string{"result"}),
		compileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "shadergrid_compile_duration_seconds",
			Help:    "Graph load and compile duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		compileErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shadergrid_compile_errors_total",
			Help: "Total compile diagnostics by kind",
		}, []string{"kind"}),
		staleDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "shadergrid_stale_results_dropped_total",
			Help: "Compilation results dropped because a newer one was requested",
		}),
		published: f.NewCounter(prometheus.CounterOpts{
			Name: "shadergrid_published_total",
			Help: "Compilation results published to the preview renderer",
		}),
	}
}

func (m *metrics) observe(res *compiler.Result) {
	if res.Success {
		m.compilations.WithLabelValues("success").Inc()
		return
	}
	m.compilations.WithLabelValues("failure").Inc()
	for _, e := range res.Errors {
		m.compileErrors.WithLabelValues(e.Kind.String()).Inc()
	}
}
