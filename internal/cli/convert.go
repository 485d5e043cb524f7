package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
	ngio "github.com/matzehuels/nodegroup/pkg/io"
)

// convertCommand creates the convert command, which turns an identifier
// table into a pair file.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert [table.csv]",
		Short: "Convert a CSV identifier table into pairs",
		Long: `Convert reads a CSV table whose header row names identifier types and
writes one "type::name$type::name" pair per line: for every combination of two
columns and every row where both cells are filled, the two cells are paired.

  user,org,team
  alice,acme,core

becomes

  user::alice$org::acme
  user::alice$team::core
  org::acme$team::core`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cobra.FixedCompletions([]string{"csv"}, cobra.ShellCompDirectiveFilterFileExt),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			input := args[0]

			pairs, err := readTable(input)
			if err != nil {
				return err
			}
			logger.Debug("converted table", "file", input, "pairs", len(pairs))

			if output == "" || output == "-" {
				return ngio.WritePairs(pairs, cmd.OutOrStdout())
			}
			if err := ngio.ExportPairs(pairs, output); err != nil {
				return err
			}
			printSuccess("Converted %s", plural(len(pairs), "pair"))
			printFile(output)
			printNextStep("Group them", "nodegroup group "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output pair file (default: stdout)")

	return cmd
}

// readTable reads a CSV table from path, or from stdin when path is "-".
func readTable(path string) ([]ident.Pair, error) {
	if path == "-" {
		return ngio.ReadTable(os.Stdin)
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "table %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ngio.ReadTable(f)
}
