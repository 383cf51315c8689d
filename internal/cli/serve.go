package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/internal/server"
	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/store"
)

// apiKeyPrefix scopes the server's cache keys.
const apiKeyPrefix = "api:"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Layouts are stored according to server.store: memory, file (server.store_dir)
or mongo (server.mongo_uri). Without a store setting a configured mongo_uri
selects MongoDB. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newAPIRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewPrometheus(reg)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetServerHooks(metrics)
	defer observability.Reset()

	srv := server.New(server.Options{
		Runner:       runner,
		Store:        st,
		Logger:       c.Logger,
		Gatherer:     reg,
		ReadTimeout:  c.config.Server.ReadTimeout.Duration,
		WriteTimeout: c.config.Server.WriteTimeout.Duration,
	})

	c.Logger.Info("listening", "addr", addr, "cache", c.config.Cache.Backend, "store", c.config.Server.StoreBackend())
	return srv.ListenAndServe(ctx, addr)
}

// newAPIRunner builds the server's runner. Its keys are scoped so a cache
// shared with the CLI (typically Redis) keeps the two apart.
func (c *CLI) newAPIRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	r, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r.Keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), apiKeyPrefix)
	return r, nil
}

// newStore opens the configured record store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.config.Server
	switch cfg.StoreBackend() {
	case config.StoreMongo:
		st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, fmt.Errorf("connect mongo store: %w", err)
		}
		return st, nil
	case config.StoreFile:
		st, err := store.NewFileStore(cfg.StoreDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return st, nil
	}
	c.Logger.Warn("layouts are kept in memory and lost on restart")
	return store.NewMemoryStore(), nil
}
