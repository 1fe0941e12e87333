package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	Predictions        *prometheus.CounterVec // labels: label={ALTO,BAJO,MODERADO}
	PredictionErrors   prometheus.Counter
	PredictionDuration prometheus.Histogram
	ModelLoaded        prometheus.Gauge

	// Weather enrichment metrics.
	WeatherRequests    *prometheus.CounterVec // labels: outcome={success,error}
	WeatherCache       *prometheus.CounterVec // labels: result={hit,miss}
	WeatherAPIDuration prometheus.Histogram
	WeatherEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "congestion",
			Name:      "predictions_total",
			Help:      "Total predictions served, by congestion level.",
		}, []string{"label"}),
		PredictionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "congestion",
			Name:      "prediction_errors_total",
			Help:      "Total requests rejected or failed during scoring.",
		}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "congestion",
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end duration of one prediction, enrichment included.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "congestion",
			Name:      "model_loaded",
			Help:      "1 when a model bundle is loaded and serving, 0 otherwise.",
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "congestion",
			Name:      "weather_requests_total",
			Help:      "Weather API requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "congestion",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "congestion",
			Name:      "weather_api_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "congestion",
			Name:      "weather_enabled",
			Help:      "1 when live weather enrichment is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Predictions,
		m.PredictionErrors,
		m.PredictionDuration,
		m.ModelLoaded,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherAPIDuration,
		m.WeatherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Predictions:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "congestion", Name: "predictions_total"}, []string{"label"}),
		PredictionErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "congestion", Name: "prediction_errors_total"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "congestion", Name: "prediction_duration_seconds"}),
		ModelLoaded:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "congestion", Name: "model_loaded"}),
		WeatherRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "congestion", Name: "weather_requests_total"}, []string{"outcome"}),
		WeatherCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "congestion", Name: "weather_cache_total"}, []string{"result"}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "congestion", Name: "weather_api_duration_seconds"}),
		WeatherEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "congestion", Name: "weather_enabled"}),
	}
}
