package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregLibert/apdugen/pkg/apdu"
	"github.com/gregLibert/apdugen/pkg/tlv"
)

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <table.csv> <command> <response hex>...",
		Short: "Decode a captured response as the generated wrapper would",
		Long: `Run a captured response (data field followed by SW1 SW2) through the decode
sequence generated for a command and print each value and the status the
wrapper would return. Hex may be split across arguments.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 3 {
				return &usageError{fmt.Errorf("%s expects a table, a command and a response", cmd.CommandPath())}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmds, err := loadCommands(args[0])
			if err != nil {
				return err
			}
			matches := filterByName(cmds, args[1])
			if len(matches) == 0 {
				return fmt.Errorf("command %q not found in %s", args[1], args[0])
			}
			if len(matches) > 1 {
				a.logger.Warn("command defined more than once, using the first", "name", args[1], "count", len(matches))
			}

			rsp, err := tlv.ParseHex(args[2:]...)
			if err != nil {
				return &usageError{err}
			}

			res := apdu.Replay(matches[0], rsp, a.cfg.SymbolicTags())
			printReplay(cmd, res)
			if res.Err != nil {
				return fmt.Errorf("%s returns %s: %w", matches[0].Name, res.Status.Verbose(), res.Err)
			}
			return nil
		},
	}
}

func printReplay(cmd *cobra.Command, res apdu.ReplayResult) {
	out := cmd.OutOrStdout()
	for _, v := range res.Values {
		_, _ = fmt.Fprintf(out, "%s = %s\n", v.Param.Name, v)
	}
	_, _ = fmt.Fprintf(out, "status %s\n", res.Status.Verbose())
}
