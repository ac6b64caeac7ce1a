package stackdriver

import (
	"context"
	"fmt"

	monitoring "google.golang.org/api/monitoring/v3"
	"google.golang.org/api/option"
	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/pkg/config"
)

// Client lists time series from the monitoring API. Timeouts and retries are
// the client's concern.
type Client interface {
	ListTimeSeries(ctx context.Context, q *Query) (*monitoring.ListTimeSeriesResponse, error)
}

// ClientFactory builds an authenticated Client for a configured account.
type ClientFactory func(ctx context.Context, account config.AccountConfig) (Client, error)

// DefaultClientFactory builds clients backed by the Cloud Monitoring API.
var DefaultClientFactory ClientFactory = func(ctx context.Context, account config.AccountConfig) (Client, error) {
	return NewMonitoringClient(ctx, account)
}

type monitoringClient struct {
	service *monitoring.Service
}

// NewMonitoringClient authenticates with the account's key file, or with
// application default credentials when the account has none.
func NewMonitoringClient(ctx context.Context, account config.AccountConfig, opts ...option.ClientOption) (Client, error) {
	if account.JSONPath != "" {
		opts = append(opts, option.WithCredentialsFile(account.JSONPath))
	}
	if account.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(account.Endpoint))
	}

	svc, err := monitoring.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create monitoring service for account %s: %w", account.Name, err)
	}

	klog.V(2).Infof("NewMonitoringClient for account %s, project %s", account.Name, account.Project)

	return &monitoringClient{service: svc}, nil
}

func (c *monitoringClient) ListTimeSeries(ctx context.Context, q *Query) (*monitoring.ListTimeSeriesResponse, error) {
	call := c.service.Projects.TimeSeries.List(q.Name).
		Filter(q.Filter).
		AggregationAlignmentPeriod(q.AlignmentPeriod).
		AggregationCrossSeriesReducer(q.CrossSeriesReducer).
		AggregationPerSeriesAligner(q.PerSeriesAligner).
		IntervalStartTime(q.IntervalStartTime).
		IntervalEndTime(q.IntervalEndTime)

	if len(q.GroupByFields) > 0 {
		call = call.AggregationGroupByFields(q.GroupByFields...)
	}

	return call.Context(ctx).Do()
}
