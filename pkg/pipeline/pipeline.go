// Package pipeline provides the build → layout → render pipeline for lineage.
//
// The CLI and the API server both run datasets through a [Runner], so both
// share one caching scheme and one set of defaults.
//
// # Stages
//
//  1. Build: construct the family graph and assign generations (never cached;
//     it is linear in the dataset)
//  2. Layout: run the force simulation and snapshot a [graph.Layout]
//  3. Render: produce artifacts (json, dot, svg, pdf, png) from the layout
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, ds, pipeline.Options{
//	    Seed:    7,
//	    Formats: []string{"json", "svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can run independently:
//
//	l, err := runner.Layout(ctx, ds, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
)

const (
	// DefaultSeed is the default jitter seed, so that unseeded runs are
	// still reproducible and cacheable.
	DefaultSeed = uint64(42)

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPDF, FormatPNG}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options configures a pipeline run. It is the JSON body of API requests
// apart from the dataset itself.
type Options struct {
	Layout layout.Config `json:"layout"`
	Seed   uint64        `json:"seed,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger   *log.Logger         `json:"-"`
	Progress layout.ProgressFunc `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	DatasetHash string
	Graph       *kin.Graph
	Layout      graph.Layout
	Artifacts   map[string][]byte
	Stats       Stats
	CacheInfo   CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Unreached  int
	Algorithm  layout.Algorithm
	Iterations int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all requested artifacts came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayoutConfig checks the ranges declared on [layout.Config].
func ValidateLayoutConfig(cfg layout.Config) error {
	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid layout config")
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates every field.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateLayoutConfig(o.Layout); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills zero layout parameters and the seed.
func (o *Options) SetLayoutDefaults() {
	o.Layout = o.Layout.WithDefaults()
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills the format list and scale.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Seed: o.Seed, Config: o.Layout}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// HashDataset returns the content hash used to key layouts of ds.
func HashDataset(ds *family.Dataset) (string, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("hash dataset: %w", err)
	}
	return cache.Hash(data), nil
}
