package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
)

// parseCommand creates the parse command with its id and pair subcommands.
func (c *CLI) parseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Validate identifiers and pairs",
		Long: `Parse checks a single identifier or pair and echoes its canonical form.
Malformed input fails with a message naming the missing separator.`,
	}

	cmd.AddCommand(c.parseIDCommand())
	cmd.AddCommand(c.parsePairCommand())

	return cmd
}

// parseIDCommand creates the "parse id" subcommand.
func (c *CLI) parseIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "id <text>",
		Short:   "Parse a type::name identifier",
		Example: `  nodegroup parse id 'user::alice'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ident.Parse(args[0])
			if err != nil {
				return errors.FromParse(err)
			}
			printKeyValue("type", strconv.Quote(id.Type()))
			printKeyValue("name", strconv.Quote(id.Name()))
			fmt.Fprintln(cmd.OutOrStdout(), id.String())
			return nil
		},
	}
}

// parsePairCommand creates the "parse pair" subcommand.
func (c *CLI) parsePairCommand() *cobra.Command {
	var other string

	cmd := &cobra.Command{
		Use:   "pair <text>",
		Short: "Parse a type::name$type::name pair",
		Example: `  nodegroup parse pair 'user::alice$org::acme'
  nodegroup parse pair 'user::alice$org::acme' --other user::alice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ident.ParsePair(args[0])
			if err != nil {
				return errors.FromParse(err)
			}

			if other != "" {
				id, err := ident.Parse(other)
				if err != nil {
					return errors.FromParse(err)
				}
				o, err := p.Lookup(id)
				if err != nil {
					return errors.FromParse(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), o.String())
				return nil
			}

			printKeyValue("first", p.First().String())
			printKeyValue("second", p.Second().String())
			if p.IsSelf() {
				printDetail("self pair")
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&other, "other", "", "print the endpoint opposite this identifier")

	return cmd
}
