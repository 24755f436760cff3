package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

// Execute runs the swaggerc CLI. Canceling ctx aborts loading and any
// running call or websocket session.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swaggerc",
		Short: "Explore and call APIs described by Swagger 1.x documents",
		Long: heredoc.Doc(`
			swaggerc loads a Swagger 1.x resource listing with its API declarations
			and exposes every resource and operation it describes. Operations are
			called with name=value arguments; websocket upgrades are dialed and
			their messages printed.`),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	cmd.SetFlagErrorFunc(flagError)
	addConnectionFlags(cmd.PersistentFlags())

	for _, sub := range []*cobra.Command{
		newResourcesCmd(),
		newDescribeCmd(),
		newInvokeCmd(),
		newInitCmd(),
	} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}
	return cmd
}

func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return flagError(cmd, err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return flagError(cmd, err)
		}
		return nil
	}
}
