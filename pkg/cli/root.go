// Package cli provides the apdugen command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gregLibert/apdugen/pkg/apdu"
	"github.com/gregLibert/apdugen/pkg/codegen"
	"github.com/gregLibert/apdugen/pkg/config"
	"github.com/gregLibert/apdugen/pkg/table"
)

// Version is set at build time.
var Version = "0.1.0"

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks bad invocations, which exit with ExitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{fmt.Errorf("%s expects %d arguments, got %d", cmd.CommandPath(), n, len(args))}
		}
		return nil
	}
}

// app carries what PersistentPreRunE resolved to the subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
}

// NewRootCmd creates the root command. Run without a subcommand it
// generates the declaration and implementation files from a table.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "apdugen <table.csv> <declarations.h> <implementation.c>",
		Short: "Generate SE05x APDU wrappers from a command table",
		Long: `apdugen reads a CSV table of SE05x APDU commands and writes a C header of
documented declarations and a C file of wrapper definitions, one per command.

Both outputs are written only if the whole table is valid.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return &usageError{errors.New("expected <table.csv> <declarations.h> <implementation.c>")}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, used, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				Prefix: "apdugen",
				Level:  cfg.Level(),
			})
			if used != "" {
				a.logger.Debug("using config file", "path", used)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			job := codegen.Job{Table: args[0], Decl: args[1], Impl: args[2]}
			n, err := codegen.Generate(cmd.Context(), job, a.cfg.Codegen(), a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("generated", "commands", n, "decl", job.Decl, "impl", job.Impl)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("prefix", "", "function name prefix")
	rootCmd.PersistentFlags().String("status-type", "", "return type of generated functions")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newDescribeCommand(a))
	rootCmd.AddCommand(newVerifyCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) {
		target := rootCmd
		if c, _, findErr := rootCmd.Find(args); findErr == nil {
			target = c
		}
		fmt.Fprint(stderr, target.UsageString())
		return ExitUsage
	}
	return ExitError
}

// loadCommands assembles every command of the table at path.
func loadCommands(path string) ([]apdu.Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	rows, err := table.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cmds, err := apdu.AssembleAll(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmds, nil
}
