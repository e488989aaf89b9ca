package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every exported metric
const Namespace = "bikerental"

// Collector holds the service metrics on its own registry
type Collector struct {
	registry *prometheus.Registry

	predictions      *prometheus.CounterVec
	predictedRecords prometheus.Counter
	fieldErrors      prometheus.Counter
	predictLatency   *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	modelInfo *prometheus.GaugeVec
}

// NewCollector registers every metric on a fresh registry. Process and Go
// runtime collectors are included.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "predictions_total",
				Help:      "Prediction calls by outcome status",
			},
			[]string{"status"},
		),
		predictedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "predicted_records_total",
			Help:      "Input records received by prediction calls",
		}),
		fieldErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "validation_field_errors_total",
			Help:      "Input fields that failed schema validation",
		}),
		predictLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "prediction_duration_seconds",
				Help:      "Prediction call duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		modelInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "model_info",
				Help:      "Served pipeline version, always 1",
			},
			[]string{"version"},
		),
	}

	c.registry.MustRegister(
		c.predictions,
		c.predictedRecords,
		c.fieldErrors,
		c.predictLatency,
		c.httpRequests,
		c.httpLatency,
		c.modelInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// SetModelVersion marks version as the served pipeline
func (c *Collector) SetModelVersion(version string) {
	c.modelInfo.Reset()
	c.modelInfo.WithLabelValues(version).Set(1)
}

// ObservePrediction records one prediction call
func (c *Collector) ObservePrediction(status string, records, fieldErrors int, duration time.Duration) {
	c.predictions.WithLabelValues(status).Inc()
	c.predictedRecords.Add(float64(records))
	c.fieldErrors.Add(float64(fieldErrors))
	c.predictLatency.WithLabelValues(status).Observe(duration.Seconds())
}

// ObserveHTTP records one HTTP request
func (c *Collector) ObserveHTTP(method, path string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}
