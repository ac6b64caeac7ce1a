package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/config"
	"github.com/gocrane/canary-metrics/pkg/providers/stackdriver"
)

// Options holds the flags shared by every command.
type Options struct {
	// ConfigFile is the YAML configuration file. Defaults apply when empty.
	ConfigFile string

	Config *config.Config
}

func NewOptions() *Options {
	return &Options{}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to the configuration file.")
}

// Complete loads the configuration file.
func (o *Options) Complete() error {
	if o.ConfigFile == "" {
		o.Config = config.Default()
		return nil
	}
	c, err := config.Load(o.ConfigFile)
	if err != nil {
		return err
	}
	o.Config = c
	return nil
}

// QueryOptions holds the flags of the query command.
type QueryOptions struct {
	Account       string
	Metrics       []string
	GroupByFields []string
	Scope         string
	Region        string
	Step          int64
	Start         string
	End           string
	Output        string

	queries []canary.Query
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{Step: 60, Output: "json"}
}

func (o *QueryOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Account, "account", o.Account, "Name of the metrics account to query.")
	fs.StringArrayVar(&o.Metrics, "metric", o.Metrics, "Metric to fetch as name=metricType, e.g. cpu=compute.googleapis.com/instance/cpu/utilization. Repeatable.")
	fs.StringSliceVar(&o.GroupByFields, "group-by", o.GroupByFields, "Fields to group series by.")
	fs.StringVar(&o.Scope, "scope", o.Scope, "Server group the metrics are scoped to.")
	fs.StringVar(&o.Region, "region", o.Region, "Region the metrics are scoped to.")
	fs.Int64Var(&o.Step, "step", o.Step, "Alignment period in seconds.")
	fs.StringVar(&o.Start, "start", o.Start, "Start of the window, RFC 3339.")
	fs.StringVar(&o.End, "end", o.End, "End of the window, RFC 3339.")
	fs.StringVarP(&o.Output, "output", "o", o.Output, "Output format: json or yaml.")
}

// Complete parses the window and the metric flags into queries.
func (o *QueryOptions) Complete() error {
	start, err := time.Parse(time.RFC3339Nano, o.Start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, o.End)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}
	scope := canary.Scope{Scope: o.Scope, Region: o.Region, Start: start, End: end, Step: o.Step}

	o.queries = o.queries[:0]
	for _, m := range o.Metrics {
		name, metricType, ok := strings.Cut(m, "=")
		if !ok || name == "" || metricType == "" {
			return fmt.Errorf("invalid --metric %q, expected name=metricType", m)
		}
		o.queries = append(o.queries, canary.Query{
			AccountName: o.Account,
			MetricConfig: canary.MetricConfig{
				Name:  name,
				Query: stackdriver.QueryConfig{MetricType: metricType, GroupByFields: o.GroupByFields},
			},
			Scope: scope,
		})
	}
	return nil
}

func (o *QueryOptions) Validate() error {
	if o.Account == "" {
		return fmt.Errorf("--account is required")
	}
	if len(o.Metrics) == 0 {
		return fmt.Errorf("at least one --metric is required")
	}
	if o.Output != "json" && o.Output != "yaml" {
		return fmt.Errorf("unsupported --output %q", o.Output)
	}
	if len(o.queries) > 0 {
		if err := o.queries[0].Scope.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Queries returns the queries built by Complete.
func (o *QueryOptions) Queries() []canary.Query {
	return o.queries
}

// ServeOptions holds the flags of the serve command.
type ServeOptions struct {
	Address string
}

func (o *ServeOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Address, "address", o.Address, "Address to serve the fetch API on; overrides server.address of the configuration file.")
}
