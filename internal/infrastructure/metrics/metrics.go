package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	LikeToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "like_toggles_total",
			Help: "Like toggles by outcome (liked, unliked, not_found, error)",
		},
		[]string{"result"},
	)

	LikeToggleRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "like_toggle_retries_total",
			Help: "Like toggle transactions retried after a conflict",
		},
	)

	LikeCountSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "like_count_subscriptions",
			Help: "Number of open like count subscriptions",
		},
	)

	FeedCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_cache_lookups_total",
			Help: "Post cache lookups by kind (detail, feed) and result (hit, miss)",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		LikeToggles,
		LikeToggleRetries,
		LikeCountSubscriptions,
		FeedCacheLookups,
	)
}
