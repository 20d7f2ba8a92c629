// Package observability provides hooks for metrics and tracing.
//
// Library code reports events through small hook interfaces instead of
// importing a metrics backend. main registers an implementation at startup
// (see the prom subpackage); until then every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	reg := prometheus.NewRegistry()
//	hooks := prom.New(reg)
//	observability.SetLayoutHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetServerHooks(hooks)
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnOptimizeStart(ctx, nodes, edges)
//	// ... optimize ...
//	observability.Layout().OnOptimizeComplete(ctx, result, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// OptimizeResult summarizes one optimization for hooks.
type OptimizeResult struct {
	Nodes       int
	Edges       int
	InitialCost float64
	FinalCost   float64
	Changes     int
	Iterations  int
	Canceled    bool
	Cached      bool
	Duration    time.Duration
}

// LayoutHooks receives events from the optimization pipeline.
type LayoutHooks interface {
	OnOptimizeStart(ctx context.Context, nodes, edges int)
	OnOptimizeComplete(ctx context.Context, result OptimizeResult, err error)
}

// CacheHooks receives events from cache operations. keyType is "layout" or
// "export".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP layout service.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnOptimizeStart(context.Context, int, int)                 {}
func (NoopLayoutHooks) OnOptimizeComplete(context.Context, OptimizeResult, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers layout hooks. A nil value is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. A nil value is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
