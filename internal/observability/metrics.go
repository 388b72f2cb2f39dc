package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fubu"

// Metrics holds the Prometheus counters, histograms, and gauges for figure
// computation and export.
type Metrics struct {
	FiguresComputed      prometheus.Counter
	FigureErrors         *prometheus.CounterVec // labels: reason={no_data}
	EventDatesOutOfRange *prometheus.CounterVec // labels: source
	ReversedPairs        *prometheus.CounterVec // labels: source
	FigureDuration       prometheus.Histogram

	DatasetLoaded  prometheus.Gauge
	DatasetSamples prometheus.Gauge

	// Export metrics.
	FiguresPublished     prometheus.Counter
	PublishBatchDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		FiguresComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_computed_total",
			Help:      "Total overlay figures composed.",
		}),
		FigureErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figure_errors_total",
			Help:      "Figure requests that produced no figure, by reason.",
		}, []string{"reason"}),
		EventDatesOutOfRange: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_date_out_of_range_total",
			Help:      "Event dates with no matching concentration sample, by label source.",
		}, []string{"source"}),
		ReversedPairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reversed_pairs_total",
			Help:      "Start/end pairs skipped because start falls after end, by label source.",
		}, []string{"source"}),
		FigureDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "figure_duration_seconds",
			Help:      "Time to slice a year and compose its figure.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_loaded",
			Help:      "1 once the concentration series and label tables are loaded.",
		}),
		DatasetSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_samples",
			Help:      "Daily concentration samples in the loaded series.",
		}),
		FiguresPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_published_total",
			Help:      "Total figures written to the export topic.",
		}),
		PublishBatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_batch_duration_seconds",
			Help:      "Duration of a compose-and-write cycle for one batch of years.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics with reg instead.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics that are not registered anywhere, so
// tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FiguresComputed,
		m.FigureErrors,
		m.EventDatesOutOfRange,
		m.ReversedPairs,
		m.FigureDuration,
		m.DatasetLoaded,
		m.DatasetSamples,
		m.FiguresPublished,
		m.PublishBatchDuration,
	}
}
