package storage

import (
	"context"

	"github.com/gocrane/canary-metrics/pkg/canary"
)

// MetricSetListStore persists the metric sets fetched by one query under a generated id.
type MetricSetListStore interface {
	Save(ctx context.Context, accountName string, metricSets []canary.MetricSet) (string, error)
	// Load returns the list stored under id, or a not_found error.
	Load(ctx context.Context, id string) ([]canary.MetricSet, error)
	Close() error
}
