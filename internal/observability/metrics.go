package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes used as the "outcome" label on FetchRequests.
const (
	OutcomeOK         = "ok"
	OutcomeBadURL     = "bad_url"
	OutcomeHTTPStatus = "http_status"
	OutcomeTransport  = "transport"
)

// Metrics holds the Prometheus counters and histograms for earthquake load cycles.
type Metrics struct {
	LoadCycles       prometheus.Counter
	LoadsCancelled   prometheus.Counter
	FetchRequests    *prometheus.CounterVec // labels: outcome={ok,bad_url,http_status,transport}
	FetchDuration    prometheus.Histogram
	FeaturesDecoded  prometheus.Counter
	FeaturesSkipped  prometheus.Counter
	LastResultLength prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the given registerer.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.LoadCycles,
		m.LoadsCancelled,
		m.FetchRequests,
		m.FetchDuration,
		m.FeaturesDecoded,
		m.FeaturesSkipped,
		m.LastResultLength,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LoadCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "load_cycles_total",
			Help:      "Load cycles started (URL build, fetch, decode, deliver).",
		}),
		LoadsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "load_cycles_cancelled_total",
			Help:      "Load cycles whose result was dropped because the view went away or was superseded.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "fetch_requests_total",
			Help:      "Event API requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakewatch",
			Name:      "fetch_duration_seconds",
			Help:      "Event API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		FeaturesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "features_decoded_total",
			Help:      "GeoJSON features decoded into earthquake records.",
		}),
		FeaturesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakewatch",
			Name:      "features_skipped_total",
			Help:      "GeoJSON features dropped because required properties were missing or malformed.",
		}),
		LastResultLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakewatch",
			Name:      "last_result_length",
			Help:      "Number of earthquakes delivered by the most recent load cycle.",
		}),
	}
}
