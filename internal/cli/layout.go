package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/egonet/egonet/pkg/layout"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		namesPath string
		output    string
		noCache   bool
		refresh   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute positions for a node's neighborhood",
		Long: `Compute 2-D positions for the neighborhood around a start node.

The neighborhood is extracted first (same rules as 'extract'), then laid out
with the chosen algorithm. Positions are written as JSON in unit-square
coordinates, keyed by node ID.

Supported algorithms: spring (default), kamada_kawai. Anything else falls
back to a force-directed layout with default parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], namesPath, opts, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&namesPath, "names", "n", "", "display name map (JSON or TOML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>_positions.json)")
	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start node ID (required)")
	cmd.Flags().IntVarP(&opts.MaxDepth, "depth", "d", neighborhood.DefaultMaxDepth, "maximum traversal depth")
	cmd.Flags().IntVarP(&opts.MaxNodes, "max-nodes", "m", neighborhood.DefaultMaxNodes, "maximum visited nodes")
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", layout.Spring, "layout algorithm: spring (default), kamada_kawai")
	cmd.Flags().Float64Var(&opts.K, "k", layout.DefaultK, "spring layout optimal spacing")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", layout.DefaultIterations, "spring simulation steps")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", layout.DefaultSeed, "random seed for reproducible layouts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// runLayout extracts the neighborhood and writes its computed positions.
func (c *CLI) runLayout(ctx context.Context, input, namesPath string, opts pipeline.Options, output string, noCache, refresh bool) error {
	g, nm, err := c.loadInputs(input, namesPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.Refresh = refresh

	res, err := runner.Extract(ctx, g, nm, opts)
	if errors.Is(err, neighborhood.ErrStartNodeNotFound) {
		c.reportMissingStart(opts.Start)
		return nil
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	pos, _, cacheHit, err := runner.LayoutWithCacheInfo(ctx, res.Subgraph, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	data, err := json.MarshalIndent(pos, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal positions: %w", err)
	}

	if output == "" {
		output = basePath("", input) + "_positions.json"
	}
	if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}

	printSuccess("Computed %s layout", StyleHighlight.Render(opts.Algorithm))
	printStats(len(pos), res.Subgraph.EdgeCount(), cacheHit)
	printFile(output)
	return nil
}
