// Package metrics provides Prometheus metrics for the compile pipeline
// and the preview server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all rudo metrics.
type Collector struct {
	// Compile pipeline
	CompilesTotal     *prometheus.CounterVec
	CompileDuration   prometheus.Histogram
	LastCompile       prometheus.Gauge
	DirectivesEmitted prometheus.Counter

	// Manifest watcher
	WatcherReloads prometheus.Counter
	WatcherErrors  prometheus.Counter

	// Preview server
	PreviewClients prometheus.Gauge

	handler http.Handler
}

// New creates a collector registered on the default registry.
func New() *Collector {
	c := build(promauto.With(prometheus.DefaultRegisterer))
	c.handler = promhttp.Handler()
	return c
}

// NewWithRegistry creates a collector on a private registry. Useful
// for testing to avoid global state.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	c := build(promauto.With(reg))
	c.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return c
}

// Handler serves the collector's registry in the Prometheus text
// format.
func (c *Collector) Handler() http.Handler {
	return c.handler
}

func build(factory promauto.Factory) *Collector {
	return &Collector{
		CompilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rudo",
				Name:      "compiles_total",
				Help:      "Total number of compile runs by outcome",
			},
			[]string{"outcome"},
		),
		CompileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "rudo",
				Name:      "compile_duration_seconds",
				Help:      "Compile run duration in seconds",
				Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		LastCompile: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rudo",
				Name:      "last_compile_timestamp",
				Help:      "Unix timestamp of the last successful compile",
			},
		),
		DirectivesEmitted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rudo",
				Name:      "directives_emitted_total",
				Help:      "Total number of animation directives emitted",
			},
		),
		WatcherReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rudo",
				Name:      "watcher_reloads_total",
				Help:      "Total number of manifest reloads triggered by the watcher",
			},
		),
		WatcherErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "rudo",
				Name:      "watcher_errors_total",
				Help:      "Total number of failed manifest reloads",
			},
		),
		PreviewClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rudo",
				Name:      "preview_clients",
				Help:      "Number of connected preview event streams",
			},
		),
	}
}
