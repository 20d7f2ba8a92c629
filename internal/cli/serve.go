package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/observability/prom"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/server"
)

// serveCommand creates the serve command running the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Routes:
  POST /v1/layout   optimize a snapshot
  POST /v1/export   render a snapshot (?format=svg|dot|json)
  GET  /healthz     liveness probe
  GET  /metrics     Prometheus metrics

Settings come from the [server] and [cache] sections of the config file.
Set cache.redis_url to share results between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := setLogFormat(c.Logger, logFormat); err != nil {
				return errors.New(errors.ErrCodeInvalidOptions, "%s", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, noCache, noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	cmd.Flags().StringVar(&logFormat, "log-format", LogFormatText, "log output: text, json or logfmt")
	_ = cmd.RegisterFlagCompletionFunc("log-format", fixedValues(LogFormatText, LogFormatJSON, LogFormatLogfmt))

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache, noMetrics bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := []server.Option{server.WithDefaults(pipeline.OptionsFromConfig(cfg))}
	if !noMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks := prom.New(reg)
		observability.SetLayoutHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
		defer observability.Reset()
		opts = append(opts, server.WithMetrics(reg))
	}

	c.Logger.Info("starting layout service",
		"addr", cfg.Server.Addr,
		"cache", cacheKind(cfg, noCache),
		"metrics", !noMetrics)
	return server.New(runner, cfg.Server, opts...).ListenAndServe(ctx)
}
