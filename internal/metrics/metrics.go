package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingress metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stream_alerts_events_published_total",
			Help: "Total number of events handed to the sink",
		},
		[]string{"type", "status"},
	)

	PublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stream_alerts_publish_duration_seconds",
			Help:    "Duration of sink publish calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver"},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_alerts_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Relay metrics
	RelayClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_alerts_relay_clients",
			Help: "Current number of connected websocket relay clients",
		},
	)

	RelayDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_alerts_relay_dropped_total",
			Help: "Total number of relay messages dropped for slow clients",
		},
	)
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
