package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "clinic_admin"

// Cache lookup results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Event delivery outcomes
const (
	EventPublished = "published"
	EventFailed    = "failed"
	EventDropped   = "dropped"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Tenant resolution metrics
	TenantRejectedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_rejected_total",
			Help: "Total number of requests rejected by tenant resolution",
		},
		[]string{"reason"},
	)

	// Cache metrics
	CacheLookupsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_lookups_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"result"},
	)

	CacheInvalidationsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_cache_invalidations_total",
			Help: "Total number of prefix invalidations",
		},
	)

	// Event metrics
	EventsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_events_total",
			Help: "Total number of domain events by outcome",
		},
		[]string{"event", "outcome"},
	)

	// Conflict metrics
	ConflictsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_conflicts_total",
			Help: "Total number of rejected duplicates by code and detection stage",
		},
		[]string{"code", "stage"},
	)
)

// ObserveHTTPRequest records one served request
func ObserveHTTPRequest(method, path, status string, started time.Time) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(started).Seconds())
}

// RecordTenantRejected counts a request refused by tenant resolution
func RecordTenantRejected(reason string) {
	TenantRejectedCounter.WithLabelValues(reason).Inc()
}

// RecordCacheLookup counts a cache read by result
func RecordCacheLookup(result string) {
	CacheLookupsCounter.WithLabelValues(result).Inc()
}

// RecordCacheInvalidation counts a prefix invalidation
func RecordCacheInvalidation() {
	CacheInvalidationsCounter.Inc()
}

// RecordEvent counts a domain event hand-off by outcome
func RecordEvent(event, outcome string) {
	EventsCounter.WithLabelValues(event, outcome).Inc()
}

// RecordConflict counts a rejected duplicate. stage is "precheck" or
// "constraint".
func RecordConflict(code, stage string) {
	ConflictsCounter.WithLabelValues(code, stage).Inc()
}
