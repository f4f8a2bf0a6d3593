// Package observability decouples the comparison libraries from whatever
// records their events.
//
// The pipeline reports solve, render and cache events to the hooks
// registered here. Nothing is recorded unless a binary installs hooks: the
// HTTP server installs Prometheus-backed ones, the CLI keeps the defaults.
//
//	observability.SetPipelineHooks(metrics)
//	observability.SetCacheHooks(metrics)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes solving and rendering. Mode is "embedding",
// "isomorphism" or "paths".
type PipelineHooks interface {
	OnSolveStart(ctx context.Context, mode string, nodes1, nodes2 int)
	OnSolveComplete(ctx context.Context, mode, strategy string, value float64, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes result cache lookups. keyType is "result" or "paths".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSolveStart(context.Context, string, int, int) {}
func (NoopPipelineHooks) OnSolveComplete(context.Context, string, string, float64, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// Interface values are boxed so atomic.Pointer can hold them.
type (
	pipelineBox struct{ PipelineHooks }
	cacheBox    struct{ CacheHooks }
)

var (
	pipelineHooks atomic.Pointer[pipelineBox]
	cacheHooks    atomic.Pointer[cacheBox]
)

func init() { Reset() }

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.Store(&pipelineBox{h})
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.Store(&cacheBox{h})
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHooks.Load().PipelineHooks }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheHooks.Load().CacheHooks }

// Reset reinstalls the no-op hooks.
func Reset() {
	pipelineHooks.Store(&pipelineBox{NoopPipelineHooks{}})
	cacheHooks.Store(&cacheBox{NoopCacheHooks{}})
}
