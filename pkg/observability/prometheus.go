package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lineage"

// Prometheus records hook events as Prometheus metrics. It implements
// [PipelineHooks], [CacheHooks] and [ServerHooks].
type Prometheus struct {
	GraphNodes      prometheus.Histogram
	GraphUnreached  prometheus.Histogram
	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  *prometheus.HistogramVec
	LayoutsInFlight prometheus.Gauge
	RendersTotal    *prometheus.CounterVec
	RenderDuration  prometheus.Histogram

	CacheRequests *prometheus.CounterVec
	CacheBytes    *prometheus.CounterVec

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// NewPrometheus creates and registers all metrics with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		GraphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of people per built family graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		GraphUnreached: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_unreached_nodes",
			Help:      "People not connected to the focal person per graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Total number of layout computations",
		}, []string{"algorithm", "status"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout computation time in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"algorithm"}),
		LayoutsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layouts_in_flight",
			Help:      "Layouts currently being computed",
		}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of render passes",
		}, []string{"status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render time in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
	}
}

func (p *Prometheus) OnBuildComplete(_ context.Context, nodes, _, unreached int, _ time.Duration) {
	p.GraphNodes.Observe(float64(nodes))
	p.GraphUnreached.Observe(float64(unreached))
}

func (p *Prometheus) OnLayoutStart(context.Context, string, int) { p.LayoutsInFlight.Inc() }

func (p *Prometheus) OnLayoutComplete(_ context.Context, algorithm string, _ int, d time.Duration, err error) {
	p.LayoutsInFlight.Dec()
	p.LayoutsTotal.WithLabelValues(algorithm, status(err)).Inc()
	p.LayoutDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.RendersTotal.WithLabelValues(status(err)).Inc()
	p.RenderDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) { p.HTTPRequestsInFlight.Inc() }

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.HTTPRequestsInFlight.Dec()
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	p.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ ServerHooks   = (*Prometheus)(nil)
)
