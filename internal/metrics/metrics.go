package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Table mutations by table, op and result ("ok" or "error")
	MutationsTotal *prometheus.CounterVec

	// Realtime metrics
	RealtimeEventsPublished *prometheus.CounterVec
	RealtimeEventsDropped   prometheus.Counter
	RealtimeConnections     prometheus.Gauge

	// Storage metrics
	UploadBytes *prometheus.HistogramVec

	// Auth metrics
	AuthAttemptsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Get creates and registers all metrics on first use
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "visionlog_http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "visionlog_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "route"},
			),
			MutationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "visionlog_mutations_total",
					Help: "Row mutations by table, operation and result",
				},
				[]string{"table", "op", "result"},
			),
			RealtimeEventsPublished: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "visionlog_realtime_events_published_total",
					Help: "Change events published to the realtime broker",
				},
				[]string{"table", "type"},
			),
			RealtimeEventsDropped: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "visionlog_realtime_events_dropped_total",
					Help: "Change events dropped because a client send buffer was full",
				},
			),
			RealtimeConnections: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "visionlog_realtime_connections",
					Help: "Open realtime websocket connections on this instance",
				},
			),
			UploadBytes: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "visionlog_upload_bytes",
					Help:    "Size of accepted media uploads",
					Buckets: prometheus.ExponentialBuckets(16<<10, 4, 7),
				},
				[]string{"kind"},
			),
			AuthAttemptsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "visionlog_auth_attempts_total",
					Help: "Sign-in and sign-up attempts by result",
				},
				[]string{"action", "result"},
			),
		}
	})
	return instance
}

// RecordMutation counts one table mutation.
func RecordMutation(table, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Get().MutationsTotal.WithLabelValues(table, op, result).Inc()
}
