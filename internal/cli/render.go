package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/egonet/egonet/pkg/layout"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/pipeline"
	"github.com/egonet/egonet/pkg/render"
)

// renderCommand creates the render command for generating figures.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		namesPath  string
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a node's neighborhood as a figure",
		Long: `Render the neighborhood around a start node as a labeled figure.

The full pipeline runs in one step: the neighborhood is extracted, laid out,
and drawn with the start node's resolved name in the title. Output formats
are svg (default), png, pdf, dot, and json. PNG and PDF conversion requires
librsvg (rsvg-convert).

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateEngine(engineOrDefault(opts.Engine, c.Config)); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], namesPath, opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&namesPath, "names", "n", "", "display name map (JSON or TOML)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cached results")

	// Extraction flags
	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start node ID (required)")
	cmd.Flags().IntVarP(&opts.MaxDepth, "depth", "d", neighborhood.DefaultMaxDepth, "maximum traversal depth")
	cmd.Flags().IntVarP(&opts.MaxNodes, "max-nodes", "m", neighborhood.DefaultMaxNodes, "maximum visited nodes")

	// Layout flags
	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", layout.Spring, "layout algorithm: spring (default), kamada_kawai")
	cmd.Flags().Float64Var(&opts.K, "k", layout.DefaultK, "spring layout optimal spacing")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", layout.DefaultIterations, "spring simulation steps")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", layout.DefaultSeed, "random seed for reproducible layouts")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "render engine: native (default), graphviz")
	cmd.Flags().StringVar(&opts.Title, "title", pipeline.DefaultTitle, "figure title (start node name is appended)")
	cmd.Flags().Float64Var(&opts.Width, "width", render.DefaultWidth, "figure width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", render.DefaultHeight, "figure height in pixels")
	cmd.Flags().Float64Var(&opts.NodeSize, "node-size", render.DefaultNodeSize, "node marker area in square pixels")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", render.DefaultFontSize, "label font size in points")
	cmd.Flags().Float64Var(&opts.EdgeAlpha, "edge-alpha", render.DefaultEdgeAlpha, "edge stroke opacity")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG rasterization scale")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

// engineOrDefault resolves the render engine from the flag or the config file.
func engineOrDefault(flag string, cfg *Config) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.Render.Engine != "" {
		return cfg.Render.Engine
	}
	return pipeline.EngineNative
}

// runRender executes the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input, namesPath string, opts pipeline.Options, output string, noCache bool) error {
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
	opts.Engine = engineOrDefault(opts.Engine, c.Config)
	if c.Config != nil {
		if opts.Width == render.DefaultWidth && c.Config.Render.Width != 0 {
			opts.Width = c.Config.Render.Width
		}
		if opts.Height == render.DefaultHeight && c.Config.Render.Height != 0 {
			opts.Height = c.Config.Render.Height
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering neighborhood of %s...", opts.Start))
	spinner.Start()

	result, err := runner.Execute(ctx, g, nm, opts)
	if errors.Is(err, neighborhood.ErrStartNodeNotFound) {
		spinner.Stop()
		c.reportMissingStart(opts.Start)
		return nil
	}
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered neighborhood of %s", StyleHighlight.Render(nm.Lookup(opts.Start)))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return writeArtifacts(result.Artifacts, opts.Formats, input, output)
}

// writeArtifacts writes each rendered format to disk. With a single format
// the output path is used directly; with multiple formats it becomes the
// base path and the format extension is appended.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	if len(formats) == 1 {
		path := output
		if path == "" {
			path = basePath("", input) + "." + formats[0]
		}
		if err := os.WriteFile(path, artifacts[formats[0]], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
		return nil
	}

	base := basePath(output, input)
	for _, format := range formats {
		path := fmt.Sprintf("%s.%s", base, format)
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
