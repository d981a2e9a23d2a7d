package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reporting_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	RangesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_date_ranges_resolved_total",
		Help: "Date ranges resolved, by preset key or \"custom\".",
	}, []string{"source"})

	RecentCacheCorrupt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reporting_recent_range_cache_corrupt_total",
		Help: "Stored recent-range values that failed to parse and were treated as empty.",
	})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_upstream_requests_total",
		Help: "Calls to the reporting API by outcome.",
	}, []string{"outcome"})

	ReportExports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporting_report_exports_total",
		Help: "Campaign report exports by format.",
	}, []string{"format"})
)
