package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnBuildComplete(ctx, 10, 12, 1, time.Millisecond)
	p.OnLayoutStart(ctx, "direct", 10)
	p.OnLayoutComplete(ctx, "direct", 300, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/healthz")
	s.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	m := NewPrometheus(prometheus.NewRegistry())
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetServerHooks(m)
	if Pipeline() != PipelineHooks(m) || Cache() != CacheHooks(m) || Server() != ServerHooks(m) {
		t.Error("Set*Hooks should register custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestPrometheusLayoutMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheus(prometheus.NewRegistry())

	m.OnLayoutStart(ctx, "direct", 5)
	if got := testutil.ToFloat64(m.LayoutsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnLayoutComplete(ctx, "direct", 300, 20*time.Millisecond, nil)
	m.OnLayoutStart(ctx, "barnes-hut", 500)
	m.OnLayoutComplete(ctx, "barnes-hut", 12, time.Second, context.Canceled)

	if got := testutil.ToFloat64(m.LayoutsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.LayoutsTotal.WithLabelValues("direct", "ok")); got != 1 {
		t.Errorf("direct ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.LayoutsTotal.WithLabelValues("barnes-hut", "error")); got != 1 {
		t.Errorf("barnes-hut error = %v, want 1", got)
	}
}

func TestPrometheusCacheMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheus(prometheus.NewRegistry())

	m.OnCacheHit(ctx, "layout")
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 2048)

	if got := testutil.ToFloat64(m.CacheRequests.WithLabelValues("layout", "hit")); got != 2 {
		t.Errorf("layout hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.CacheRequests.WithLabelValues("artifact", "miss")); got != 1 {
		t.Errorf("artifact misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheBytes.WithLabelValues("artifact")); got != 2048 {
		t.Errorf("artifact bytes = %v, want 2048", got)
	}
}

func TestPrometheusServerMetrics(t *testing.T) {
	ctx := context.Background()
	m := NewPrometheus(prometheus.NewRegistry())

	m.OnRequest(ctx, "POST", "/v1/layouts")
	m.OnResponse(ctx, "POST", "/v1/layouts", 201, 5*time.Millisecond)
	m.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/v1/layouts", "201")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.RendersTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("render errors = %v, want 1", got)
	}
}

func TestNewPrometheusRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	NewPrometheus(reg)
}

type testPipelineHooks struct{ NoopPipelineHooks }
