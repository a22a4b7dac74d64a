package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ragpanel", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ragpanel", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ragpanel", Name: "upstream_requests_total", Help: "Proxy calls to the RAG backend by route and status class."},
		[]string{"route", "status"},
	)
	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ragpanel", Name: "querycache_hits_total", Help: "Query cache lookups served from memory."},
	)
	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ragpanel", Name: "querycache_misses_total", Help: "Query cache lookups that required a fetch."},
	)
	CacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ragpanel", Name: "querycache_evictions_total", Help: "Query cache entries evicted by the GC window."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(UpstreamRequests)
	reg.MustRegister(CacheHits)
	reg.MustRegister(CacheMisses)
	reg.MustRegister(CacheEvictions)
}
