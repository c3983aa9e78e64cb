package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egonet/egonet/internal/server"
	"github.com/egonet/egonet/pkg/cache"
	"github.com/egonet/egonet/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve the render pipeline as a stateless HTTP API.

POST /api/render accepts a graph document, a name map, and pipeline options,
and returns the rendered artifacts. GET /healthz reports liveness.

The API shares the CLI's cache backend; keys are namespaced so a shared
Redis instance can serve both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the HTTP server and blocks until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	// API keys are namespaced so a Redis instance shared with other
	// deployments stays collision-free.
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "api:"), c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger)

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	return srv.ListenAndServe(ctx, addr)
}
