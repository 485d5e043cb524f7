package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	ngerrors "github.com/matzehuels/nodegroup/pkg/errors"
	ngio "github.com/matzehuels/nodegroup/pkg/io"
	"github.com/matzehuels/nodegroup/pkg/pipeline"
	"github.com/matzehuels/nodegroup/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // diagram formats: "svg", "png", "pdf", "dot"
	inputFormat string   // override for the pair file format
	compact     bool     // label nodes by name only
	flat        bool     // color groups instead of clustering them
	scale       float64  // PNG resolution multiplier
	noCache     bool     // disable the result cache
}

// renderCommand creates the render command for drawing the pair graph.
//
// Default settings:
//   - format: svg
//   - output: next to the input file, with the format as extension
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the pair graph with one cluster per group",
		Example: `  nodegroup render pairs.txt
  nodegroup render pairs.txt -f svg,png --compact
  nodegroup render pairs.txt -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = []string{pipeline.FormatSVG}
			}
			if err := validateDiagramFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: text, json, csv (default: from extension)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "label nodes by name only")
	cmd.Flags().BoolVar(&opts.flat, "flat", false, "color groups instead of clustering them")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "png resolution multiplier")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	registerPairCompletions(cmd, diagramFormats)

	return cmd
}

// validateDiagramFormats accepts only the formats that draw the graph.
func validateDiagramFormats(formats []string) error {
	for _, f := range formats {
		switch f {
		case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT:
		default:
			return ngerrors.New(ngerrors.ErrCodeInvalidFormat, "invalid diagram format: %q (must be one of: svg, png, pdf, dot)", f)
		}
	}
	return nil
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	pairs, err := readPairs(input, ngio.Format(opts.inputFormat))
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %s as %s", plural(len(pairs), "pair"), strings.Join(opts.formats, ", ")))
	spin.Start()
	result, err := runner.Execute(ctx, pairs, pipeline.Options{
		Formats: opts.formats,
		Compact: opts.compact,
		Flat:    opts.flat,
		Scale:   opts.scale,
		Logger:  logger,
	})
	if err != nil {
		spin.Stop()
		if errors.Is(err, render.ErrConverterMissing) {
			printWarning("PNG and PDF output need rsvg-convert (librsvg) on PATH")
		}
		return err
	}
	spin.StopWithSuccess("Rendered %s", plural(result.Stats.Groups, "group"))

	if err := writeArtifacts(cmd.OutOrStdout(), result.Artifacts, opts.formats, opts.output, input); err != nil {
		return err
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	return nil
}
