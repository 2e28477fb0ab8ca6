package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "movenow_dashboard", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movenow_dashboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Upstream MoveNow API traffic, labelled by endpoint scope so a noisy
	// admin page is distinguishable from the booking flow.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "movenow_dashboard", Name: "api_requests_total", Help: "Upstream API requests by scope and status"},
		[]string{"scope", "status"},
	)
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "movenow_dashboard",
			Name:      "api_request_duration_seconds",
			Help:      "Upstream API latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "movenow_dashboard", Name: "sessions_active", Help: "Dashboard sessions currently authenticated"})

	ForcedLogouts = promauto.NewCounter(prometheus.CounterOpts{Namespace: "movenow_dashboard", Name: "forced_logouts_total", Help: "Sessions cleared by an upstream 401"})

	TrackingStreams = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "movenow_dashboard", Name: "tracking_streams", Help: "Open booking-tracking websocket streams"})

	EstimateCacheHits = promauto.NewCounter(prometheus.CounterOpts{Namespace: "movenow_dashboard", Name: "estimate_cache_hits_total", Help: "Price estimates served from the local cache"})
)
