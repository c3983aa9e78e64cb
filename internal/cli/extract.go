package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/names"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/pipeline"
)

// extractCommand creates the extract command for saving a neighborhood subgraph.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		namesPath string
		output    string
		noCache   bool
		refresh   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "extract [graph.json]",
		Short: "Extract the neighborhood around a node",
		Long: `Extract the bounded neighborhood around a start node.

The traversal visits up to --max-nodes nodes within --depth hops of the start
node, keeps only nodes with a usable display name, and saves the induced
subgraph as JSON. The subgraph can be fed to 'layout' or inspected directly.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd.Context(), args[0], namesPath, opts, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&namesPath, "names", "n", "", "display name map (JSON or TOML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>_neighborhood.json)")
	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start node ID (required)")
	cmd.Flags().IntVarP(&opts.MaxDepth, "depth", "d", neighborhood.DefaultMaxDepth, "maximum traversal depth")
	cmd.Flags().IntVarP(&opts.MaxNodes, "max-nodes", "m", neighborhood.DefaultMaxNodes, "maximum visited nodes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached results")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// runExtract loads the inputs and saves the extracted subgraph.
func (c *CLI) runExtract(ctx context.Context, input, namesPath string, opts pipeline.Options, output string, noCache, refresh bool) error {
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

	res, cacheHit, err := runner.ExtractWithCacheInfo(ctx, g, nm, opts)
	if errors.Is(err, neighborhood.ErrStartNodeNotFound) {
		c.reportMissingStart(opts.Start)
		return nil
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	if output == "" {
		output = basePath("", input) + "_neighborhood.json"
	}
	if err := graph.WriteFile(res.Subgraph, output); err != nil {
		return fmt.Errorf("write subgraph: %w", err)
	}

	printSuccess("Extracted neighborhood of %s", StyleHighlight.Render(nm.Lookup(opts.Start)))
	printStats(res.Subgraph.NodeCount(), res.Subgraph.EdgeCount(), cacheHit)
	printDetail("visited %d nodes, kept %d with display names",
		res.VisitedCount, res.Subgraph.NodeCount())
	printFile(output)
	return nil
}

// reportMissingStart prints the diagnostic for an unknown start node.
// This is the expected outcome for a bad ID, not a program failure, so the
// command exits zero without rendering anything.
func (c *CLI) reportMissingStart(start string) {
	printError("Node %s not found in the graph", StyleHighlight.Render(start))
	printDetail("check the node ID against the graph file")
}

// loadInputs reads the graph document and the optional name map.
func (c *CLI) loadInputs(graphPath, namesPath string) (*graph.Graph, names.Map, error) {
	p := newProgress(c.Logger)
	g, err := graph.ReadFile(graphPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load graph %s: %w", graphPath, err)
	}
	p.done(fmt.Sprintf("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount()))

	nm := names.Map{}
	if namesPath != "" {
		nm, err = names.LoadFile(namesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load names %s: %w", namesPath, err)
		}
		c.Logger.Debug("loaded name map", "entries", len(nm))
	} else {
		printWarning("no name map given; all nodes will be filtered out of the figure")
	}
	return g, nm, nil
}
