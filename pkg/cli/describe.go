package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregLibert/apdugen/pkg/apdu"
)

func newDescribeCommand(a *app) *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "describe <table.csv>",
		Short: "Print the commands of a table",
		Long: `Print every command of a table with its decoded header, its parameters and
a preview of the request APDU. Symbolic tags are resolved through the
"tags" section of the config file.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := loadCommands(args[0])
			if err != nil {
				return err
			}
			if only != "" {
				cmds = filterByName(cmds, only)
				if len(cmds) == 0 {
					return fmt.Errorf("command %q not found in %s", only, args[0])
				}
			}
			a.logger.Debug("describe", "table", args[0], "commands", len(cmds))
			return apdu.Describe(cmd.OutOrStdout(), cmds, a.cfg.SymbolicTags())
		},
	}

	cmd.Flags().StringVar(&only, "command", "", "describe only the named command")
	return cmd
}

func filterByName(cmds []apdu.Command, name string) []apdu.Command {
	var out []apdu.Command
	for _, c := range cmds {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
