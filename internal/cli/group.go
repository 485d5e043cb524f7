package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	ngio "github.com/matzehuels/nodegroup/pkg/io"
	"github.com/matzehuels/nodegroup/pkg/pipeline"
)

// groupOpts holds the command-line flags for the group command.
type groupOpts struct {
	output      string   // output file path (or base path for multiple formats)
	formats     []string // output formats, see pipeline.ValidFormats
	inputFormat string   // override for the pair file format: text, json, csv
	sorted      bool     // order members and groups by identifier
	refresh     bool     // ignore cached results
	noCache     bool     // disable the cache entirely
	interactive bool     // browse groups in a TUI instead of printing them
	compact     bool     // diagram labels without types
	flat        bool     // diagrams without group clusters
	scale       float64  // PNG scale factor
}

// groupCommand creates the group command, the main entry point of the CLI.
func (c *CLI) groupCommand() *cobra.Command {
	var formatsStr string
	var opts groupOpts

	cmd := &cobra.Command{
		Use:   "group [file]",
		Short: "Group the identifiers of a pair file into connected components",
		Long: `Group reads pairs of typed identifiers and prints every connected group.

The input format follows the file extension: .json for {"pairs": [...]},
.csv for an identifier table (see "nodegroup convert"), anything else for one
"type::name$type::name" pair per line. Use "-" to read text from stdin.`,
		Example: `  nodegroup group pairs.txt
  nodegroup group pairs.txt -f json -o groups.json
  nodegroup group pairs.txt -f text,svg --sorted
  cat pairs.txt | nodegroup group - -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = pipeline.ParseFormats(formatsStr)
			if len(opts.formats) == 0 {
				opts.formats = c.Config.Output.Formats
			}
			return c.runGroup(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): text, json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.inputFormat, "input-format", "", "input format: text, json, csv (default: from extension)")
	cmd.Flags().BoolVar(&opts.sorted, "sorted", false, "sort members and groups by identifier")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the groups interactively")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "diagrams: label nodes by name only")
	cmd.Flags().BoolVar(&opts.flat, "flat", false, "diagrams: color groups instead of clustering them")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "png: resolution multiplier")

	registerPairCompletions(cmd, groupFormats)

	return cmd
}

// runGroup loads the pairs, runs the pipeline and writes or browses the result.
func (c *CLI) runGroup(cmd *cobra.Command, input string, opts groupOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := pipeline.ValidateFormats(opts.formats); err != nil {
		return err
	}

	prog := newProgress(logger, "load")
	pairs, err := readPairs(input, ngio.Format(opts.inputFormat))
	if err != nil {
		return err
	}
	prog.done("Loaded %s from %s", plural(len(pairs), "pair"), input)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, pairs, pipeline.Options{
		Formats: opts.formats,
		Sorted:  opts.sorted,
		Refresh: opts.refresh,
		Compact: opts.compact,
		Flat:    opts.flat,
		Scale:   opts.scale,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if opts.interactive {
		if err := browseGroups(ctx, result); err != nil {
			return err
		}
		if opts.output == "" {
			return nil
		}
	}

	if err := writeArtifacts(cmd.OutOrStdout(), result.Artifacts, opts.formats, opts.output, input); err != nil {
		return err
	}

	printSuccess("Grouped %s", plural(result.Stats.Nodes, "identifier"))
	printStats(result.Stats, result.CacheInfo.GroupsHit)
	return nil
}

// browseGroups opens the interactive group browser.
func browseGroups(ctx context.Context, result *pipeline.Result) error {
	p := tea.NewProgram(NewGroupListModel(result.Groups), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("group browser: %w", err)
	}
	return nil
}
