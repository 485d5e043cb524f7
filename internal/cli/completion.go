package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegroup/pkg/pipeline"
)

// pairFileExts are the extensions offered when completing a pair file.
var pairFileExts = []string{"txt", "pairs", "json", "csv"}

var (
	groupFormats   = []string{pipeline.FormatText, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF}
	diagramFormats = []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT}
	inputFormats   = []string{"text", "json", "csv"}
)

// completionCommand creates the completion command for generating shell scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for nodegroup.

Besides command and flag names, the scripts complete pair files by extension
(.txt, .pairs, .json, .csv) and the values of --format and --input-format.

  bash:        source <(nodegroup completion bash)
  zsh:         nodegroup completion zsh > "${fpath[1]}/_nodegroup"
  fish:        nodegroup completion fish | source
  powershell:  nodegroup completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerPairCompletions wires completion for a command that takes one pair
// file and has --format/--input-format flags. formats lists the values
// --format accepts on this command.
func registerPairCompletions(cmd *cobra.Command, formats []string) {
	cmd.ValidArgsFunction = completePairFile
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormatList(formats))
	_ = cmd.RegisterFlagCompletionFunc("input-format", cobra.FixedCompletions(inputFormats, cobra.ShellCompDirectiveNoFileComp))
}

func completePairFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return pairFileExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormatList completes the last element of a comma-separated list,
// keeping the elements already typed and skipping formats already chosen.
func completeFormatList(formats []string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		head := ""
		chosen := map[string]bool{}
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			head = toComplete[:i+1]
			for _, f := range strings.Split(toComplete[:i], ",") {
				chosen[strings.TrimSpace(f)] = true
			}
		}
		var out []string
		for _, f := range formats {
			if !chosen[f] {
				out = append(out, head+f)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
