package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/gocrane/canary-metrics/cmd/canary-metrics/app/options"
	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/providers/stackdriver"
)

// metricResult is one metric of the query command's output.
type metricResult struct {
	Metric     string             `json:"metric" yaml:"metric"`
	MetricSets []canary.MetricSet `json:"metricSets" yaml:"metricSets"`
}

func NewQueryCommand(ctx context.Context, opts *options.Options) *cobra.Command {
	queryOpts := options.NewQueryOptions()

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Fetch metric sets for one or more metrics and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := queryOpts.Complete(); err != nil {
				return err
			}
			if err := queryOpts.Validate(); err != nil {
				return err
			}
			return runQuery(ctx, cmd.OutOrStdout(), opts, queryOpts, stackdriver.DefaultClientFactory)
		},
	}

	queryOpts.AddFlags(cmd.Flags())
	return cmd
}

func runQuery(ctx context.Context, out io.Writer, opts *options.Options, queryOpts *options.QueryOptions, newClient stackdriver.ClientFactory) error {
	env, err := setupEnvironment(ctx, opts.Config, newClient)
	if err != nil {
		return err
	}

	queries := queryOpts.Queries()
	results, err := canary.QueryAll(ctx, env.services, queries, opts.Config.Query.Limit)
	if err != nil {
		return err
	}

	output := make([]metricResult, 0, len(results))
	for i, sets := range results {
		output = append(output, metricResult{Metric: queries[i].MetricConfig.Name, MetricSets: sets})
	}
	return writeOutput(out, queryOpts.Output, output)
}

func writeOutput(out io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "yaml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = out.Write(data)
	return err
}
