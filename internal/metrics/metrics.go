// Package metrics provides Prometheus instrumentation for the lineup server.
//
// Metrics exposed at GET /metrics:
//
//	lineup_http_requests_total            counter: requests by method/route/status
//	lineup_http_request_duration_seconds  histogram: latency by method/route
//	lineup_clips_generated_total          counter: generated clips by result
//	lineup_schedule_mutations_total       counter: slot edits by op/result
//	lineup_ads_resolved_total             counter: ad resolutions by source
//	lineup_stale_writes_total             counter: rejected replaces by entity
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector registered by the server
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	ClipsGenerated    *prometheus.CounterVec
	ScheduleMutations *prometheus.CounterVec
	AdsResolved       *prometheus.CounterVec
	StaleWrites       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns metrics registered with the global Prometheus registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return defaultMetrics
}

// New registers the lineup collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() for both arguments.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_http_requests_total",
			Help: "Total HTTP requests handled.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lineup_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		ClipsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_clips_generated_total",
			Help: "Auto-generated clips by result.",
		}, []string{"result"}),

		ScheduleMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_schedule_mutations_total",
			Help: "Live schedule slot mutations by operation and result.",
		}, []string{"op", "result"}),

		AdsResolved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_ads_resolved_total",
			Help: "Ad resolutions by the assignment scope that supplied them.",
		}, []string{"source"}),

		StaleWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_stale_writes_total",
			Help: "Replaces rejected because the stored revision had moved on.",
		}, []string{"entity"}),

		gatherer: gatherer,
	}
}

// Handler returns the Prometheus HTTP handler for /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency by route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Result returns the label used for an operation outcome
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
