package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner holds no pipeline results. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL and ArtifactTTL default to cache.LayoutTTL and cache.ArtifactTTL.
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		LayoutTTL:   cache.LayoutTTL,
		ArtifactTTL: cache.ArtifactTTL,
	}
}

// Execute runs the complete build → layout → render pipeline with caching.
// ds must already be validated.
func (r *Runner) Execute(ctx context.Context, ds *family.Dataset, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	g := Build(ctx, ds)
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.Unreached = len(g.Unreached())

	r.Logger.Info("built family graph",
		"people", g.NodeCount(),
		"relationships", g.EdgeCount(),
		"unreached", result.Stats.Unreached,
		"focal", g.Focal())

	hash, err := HashDataset(ds)
	if err != nil {
		return nil, err
	}
	result.DatasetHash = hash

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, hash, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Algorithm = layout.Algorithm(l.Algorithm)
	result.Stats.Iterations = l.Config.Iterations
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"algorithm", result.Stats.Algorithm,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of g with caching and returns
// cache hit info. datasetHash identifies the dataset g was built from (see
// [HashDataset]). On a hit the cached positions are copied onto g so callers
// see the same state either way.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, datasetHash string, g *kin.Graph, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()
	if err := ValidateLayoutConfig(opts.Layout); err != nil {
		return graph.Layout{}, false, err
	}

	hooks := observability.Cache()
	cacheKey := r.Keyer.LayoutKey(datasetHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			r.Logger.Warn("layout cache read failed", "error", err)
		}
		if err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				applyPositions(g, cached)
				return cached, true, nil
			}
			// Undecodable entries are recomputed and overwritten.
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	l, _, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.LayoutTTL); err != nil {
			r.Logger.Warn("layout cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}

	return l, false, nil
}

// Layout builds ds and computes its layout, discarding the cache hit info.
func (r *Runner) Layout(ctx context.Context, ds *family.Dataset, opts Options) (graph.Layout, error) {
	hash, err := HashDataset(ds)
	if err != nil {
		return graph.Layout{}, err
	}
	l, _, err := r.LayoutWithCacheInfo(ctx, hash, Build(ctx, ds), opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is true only when every requested format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := Render(ctx, l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// applyPositions copies cached coordinates onto g's nodes.
func applyPositions(g *kin.Graph, l graph.Layout) {
	nodes := g.Nodes()
	for _, n := range l.Nodes {
		if i, ok := g.Index(n.ID); ok {
			nodes[i].Position = n.Position()
		}
	}
}
