// =============================================================================
// rfmaker - Types Command
// =============================================================================
//
// COMMAND USAGE:
//   rfmaker types [--config file] [--types-workbook file]
//
// Prints the effective type table: the builtin rules, then the rules from
// the configuration file, then the rules from the workbook.
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// newTypesCommand creates the 'types' command.
func newTypesCommand(fs afero.Fs, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Print the type table used to render members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fs, opts)
			if err != nil {
				return err
			}

			table, err := cfg.TypeTable(fs)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tTYPE\tINCLUDE\tQUOTE")
			for _, rule := range table.Rules() {
				include := rule.Include
				if include == "" {
					include = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rule.Tag, rule.RenderType(), include, rule.Quote)
			}
			fmt.Fprintln(w, "(other)\t<tag>\t-\tnone")
			return w.Flush()
		},
	}
}
