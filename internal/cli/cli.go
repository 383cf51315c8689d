// Package cli implements the lineage command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lineage"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lineage lays out family trees in 3D",
		Long: `Lineage turns a genealogy dataset into a force-directed 3D layout where
generations stack vertically and relatives cluster together.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/lineage/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	if ttl := c.config.Cache.TTL.Duration; ttl > 0 {
		r.LayoutTTL = ttl
		r.ArtifactTTL = ttl
	}
	return r, nil
}

// newCache builds the configured cache backend. A file cache whose
// directory cannot be resolved degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.config.Cache.RedisURL, cache.WithRedisLogger(c.Logger))
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/lineage/).
func (c *CLI) cacheDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// bindLayoutFlags registers one flag per layout parameter. Flags that are
// not set on the command line keep the value from the config file.
func bindLayoutFlags(fs *pflag.FlagSet, cfg *layout.Config) {
	fs.IntVar(&cfg.Iterations, "iterations", 0, "simulation steps")
	fs.Float64Var(&cfg.Repulsion, "repulsion", 0, "pairwise repulsion coefficient")
	fs.Float64Var(&cfg.Attraction, "attraction", 0, "edge spring coefficient")
	fs.Float64Var(&cfg.CenterForce, "center-force", 0, "pull toward the vertical axis")
	fs.Float64Var(&cfg.GenerationSpacing, "generation-spacing", 0, "vertical distance between generations")
	fs.Float64Var(&cfg.LayerPull, "layer-pull", 0, "pull toward the generation layer")
	fs.Float64Var(&cfg.Theta, "theta", 0, "Barnes-Hut opening angle")
	fs.Float64Var(&cfg.Softening, "softening", 0, "distance softening")
	fs.IntVar(&cfg.BarnesHutThreshold, "barnes-hut-threshold", 0, "node count above which the octree is used")
	fs.Float64Var(&cfg.BoundsPadding, "bounds-padding", 0, "octree root padding")
	fs.Float64Var(&cfg.JitterXZ, "jitter-xz", 0, "horizontal placement jitter")
	fs.Float64Var(&cfg.JitterY, "jitter-y", 0, "vertical placement jitter")
	fs.Float64Var(&cfg.CoolingFloor, "cooling-floor", 0, "final temperature")
	fs.Float64Var(&cfg.Damping, "damping", 0, "reserved")
}

// mergeLayoutFlags overlays explicitly set flag values onto base.
func mergeLayoutFlags(fs *pflag.FlagSet, flags, base layout.Config) layout.Config {
	out := base
	set := func(name string, apply func()) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			apply()
		}
	}
	set("iterations", func() { out.Iterations = flags.Iterations })
	set("repulsion", func() { out.Repulsion = flags.Repulsion })
	set("attraction", func() { out.Attraction = flags.Attraction })
	set("center-force", func() { out.CenterForce = flags.CenterForce })
	set("generation-spacing", func() { out.GenerationSpacing = flags.GenerationSpacing })
	set("layer-pull", func() { out.LayerPull = flags.LayerPull })
	set("theta", func() { out.Theta = flags.Theta })
	set("softening", func() { out.Softening = flags.Softening })
	set("barnes-hut-threshold", func() { out.BarnesHutThreshold = flags.BarnesHutThreshold })
	set("bounds-padding", func() { out.BoundsPadding = flags.BoundsPadding })
	set("jitter-xz", func() { out.JitterXZ = flags.JitterXZ })
	set("jitter-y", func() { out.JitterY = flags.JitterY })
	set("cooling-floor", func() { out.CoolingFloor = flags.CoolingFloor })
	set("damping", func() { out.Damping = flags.Damping })
	return out
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// outputPath derives "<input-without-ext><suffix>" when output is empty.
func outputPath(input, output, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
