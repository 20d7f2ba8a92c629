// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/mindmap/pkg/observability"
)

// Hooks records layout, cache and server events as Prometheus metrics.
type Hooks struct {
	OptimizationsTotal   *prometheus.CounterVec
	OptimizeDuration     prometheus.Histogram
	OptimizeImprovement  prometheus.Histogram
	OptimizeIterations   prometheus.Histogram
	OptimizationsRunning prometheus.Gauge

	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.HistogramVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// New registers the metrics with reg and returns the hooks.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		OptimizationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindmap_optimizations_total",
				Help: "Layout optimizations by outcome",
			},
			[]string{"outcome"},
		),
		OptimizeDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mindmap_optimize_duration_seconds",
				Help:    "Wall time of layout optimizations",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		OptimizeImprovement: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mindmap_optimize_improvement_ratio",
				Help:    "Relative cost reduction, (initial-final)/initial",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		OptimizeIterations: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mindmap_optimize_iterations",
				Help:    "Iterations run per optimization",
				Buckets: prometheus.ExponentialBuckets(100, 2, 10),
			},
		),
		OptimizationsRunning: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "mindmap_optimizations_running",
				Help: "Optimizations currently in progress",
			},
		),
		CacheRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindmap_cache_requests_total",
				Help: "Cache lookups and writes by key type and result",
			},
			[]string{"key_type", "result"},
		),
		CacheWriteBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindmap_cache_write_bytes",
				Help:    "Size of cache entries written",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindmap_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindmap_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "mindmap_http_requests_in_flight",
				Help: "HTTP requests currently being served",
			},
		),
	}
}

// OnOptimizeStart implements observability.LayoutHooks.
func (h *Hooks) OnOptimizeStart(context.Context, int, int) {
	h.OptimizationsRunning.Inc()
}

// OnOptimizeComplete implements observability.LayoutHooks.
func (h *Hooks) OnOptimizeComplete(_ context.Context, r observability.OptimizeResult, err error) {
	h.OptimizationsRunning.Dec()
	h.OptimizationsTotal.WithLabelValues(outcome(r, err)).Inc()
	if err != nil || r.Cached {
		return
	}
	h.OptimizeDuration.Observe(r.Duration.Seconds())
	h.OptimizeIterations.Observe(float64(r.Iterations))
	if r.InitialCost > 0 {
		h.OptimizeImprovement.Observe((r.InitialCost - r.FinalCost) / r.InitialCost)
	}
}

func outcome(r observability.OptimizeResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case r.Canceled:
		return "canceled"
	case r.Cached:
		return "cached"
	default:
		return "ok"
	}
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "set").Inc()
	h.CacheWriteBytes.WithLabelValues(keyType).Observe(float64(size))
}

// OnRequest implements observability.ServerHooks.
func (h *Hooks) OnRequest(context.Context, string, string) {
	h.HTTPRequestsInFlight.Inc()
}

// OnResponse implements observability.ServerHooks.
func (h *Hooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.HTTPRequestsInFlight.Dec()
	h.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.LayoutHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.ServerHooks = (*Hooks)(nil)
)
