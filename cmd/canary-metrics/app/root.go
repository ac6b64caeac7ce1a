package app

import (
	"context"
	"flag"

	"github.com/spf13/cobra"

	"github.com/gocrane/canary-metrics/cmd/canary-metrics/app/options"
)

// NewRootCommand creates the canary-metrics command with its subcommands.
func NewRootCommand(ctx context.Context) *cobra.Command {
	opts := options.NewOptions()

	cmd := &cobra.Command{
		Use:           "canary-metrics",
		Long:          `canary-metrics fetches metrics from monitoring backends and normalizes them into metric sets for canary analysis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	opts.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewQueryCommand(ctx, opts),
		NewServeCommand(ctx, opts),
		NewVersionCommand(),
	)
	return cmd
}
