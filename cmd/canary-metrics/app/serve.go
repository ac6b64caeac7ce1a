package app

import (
	"context"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/cmd/canary-metrics/app/options"
	"github.com/gocrane/canary-metrics/pkg/providers/stackdriver"
	"github.com/gocrane/canary-metrics/pkg/server"
	"github.com/gocrane/canary-metrics/pkg/storage"
)

func NewServeCommand(ctx context.Context, opts *options.Options) *cobra.Command {
	serveOpts := &options.ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fetch API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(); err != nil {
				return err
			}
			if serveOpts.Address != "" {
				opts.Config.Server.Address = serveOpts.Address
			}
			return runServe(ctx, opts)
		},
	}

	serveOpts.AddFlags(cmd.Flags())
	return cmd
}

// runServe serves until ctx is done.
func runServe(ctx context.Context, opts *options.Options) error {
	env, err := setupEnvironment(ctx, opts.Config, stackdriver.DefaultClientFactory)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLite(opts.Config.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			klog.Errorf("Failed to close storage: %v", err)
		}
	}()

	return server.New(env.services, store, env.registry).Run(ctx, opts.Config.Server.Address)
}
