package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LifecycleActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_lifecycle_actions_total",
		Help: "Total number of committed borrow, rent, purchase and return actions",
	}, []string{"action"})

	LifecycleActionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_lifecycle_actions_failed_total",
		Help: "Total number of rejected or failed lifecycle actions",
	}, []string{"action", "reason"})

	LifecycleActionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "library_lifecycle_action_latency_seconds",
		Help:    "Latency of lifecycle actions including the store transaction",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})

	IdempotentReplaysTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "library_idempotent_replays_total",
		Help: "Total number of requests answered from a stored idempotency key",
	})

	ReviewsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_reviews_recorded_total",
		Help: "Total number of reviews saved",
	}, []string{"outcome"})

	WishlistChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_wishlist_changes_total",
		Help: "Total number of wishlist add and remove operations that changed membership",
	}, []string{"op"})

	CacheUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_availability_cache_updates_total",
		Help: "Availability cache writes by result",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
