package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/mindmap/pkg/observability"
)

func TestOptimizeMetrics(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnOptimizeStart(ctx, 3, 2)
	if got := testutil.ToFloat64(h.OptimizationsRunning); got != 1 {
		t.Errorf("running = %v, want 1", got)
	}

	h.OnOptimizeComplete(ctx, observability.OptimizeResult{
		InitialCost: 100, FinalCost: 40, Iterations: 500, Duration: 20 * time.Millisecond,
	}, nil)
	h.OnOptimizeStart(ctx, 3, 2)
	h.OnOptimizeComplete(ctx, observability.OptimizeResult{Canceled: true}, nil)
	h.OnOptimizeStart(ctx, 3, 2)
	h.OnOptimizeComplete(ctx, observability.OptimizeResult{}, errors.New("boom"))

	if got := testutil.ToFloat64(h.OptimizationsRunning); got != 0 {
		t.Errorf("running = %v, want 0", got)
	}
	for _, outcome := range []string{"ok", "canceled", "error"} {
		if got := testutil.ToFloat64(h.OptimizationsTotal.WithLabelValues(outcome)); got != 1 {
			t.Errorf("optimizations{%s} = %v, want 1", outcome, got)
		}
	}
}

func TestCacheMetrics(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "layout", 2048)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheHit(ctx, "layout")

	tests := map[string]float64{"hit": 2, "miss": 1, "set": 1}
	for result, want := range tests {
		if got := testutil.ToFloat64(h.CacheRequestsTotal.WithLabelValues("layout", result)); got != want {
			t.Errorf("cache{%s} = %v, want %v", result, got, want)
		}
	}
}

func TestServerMetrics(t *testing.T) {
	h := New(prometheus.NewRegistry())
	ctx := context.Background()

	h.OnRequest(ctx, "POST", "/v1/layout")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)

	if got := testutil.ToFloat64(h.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layout", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(reg)
}
