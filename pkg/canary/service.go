package canary

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/pkg/canaryerr"
)

// Querier fetches the metric sets of one metric for one account and scope.
type Querier interface {
	QueryMetrics(ctx context.Context, accountName string, metricConfig MetricConfig, scope Scope) ([]MetricSet, error)
}

// MetricsService is a Querier bound to one monitoring backend.
type MetricsService interface {
	Querier
	// Type is the backend name, e.g. "stackdriver".
	Type() string
	// ServicesAccount reports whether accountName is served by this service.
	ServicesAccount(accountName string) bool
}

// ServiceRepository routes queries to the MetricsService serving an account.
// It holds at most one service per backend type, matched case-insensitively.
type ServiceRepository struct {
	types    []string
	services map[string]MetricsService
}

func NewServiceRepository(services ...MetricsService) (*ServiceRepository, error) {
	r := &ServiceRepository{services: make(map[string]MetricsService)}
	for _, s := range services {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds s under its type.
func (r *ServiceRepository) Register(s MetricsService) error {
	typ := strings.ToLower(s.Type())
	if typ == "" {
		return canaryerr.Config("Metrics service has no type.")
	}
	if _, exists := r.services[typ]; exists {
		return canaryerr.Config("A metrics service of type %s is already registered.", s.Type())
	}
	r.services[typ] = s
	r.types = append(r.types, typ)
	sort.Strings(r.types)
	klog.V(2).Infof("Registered metrics service %s", typ)
	return nil
}

// GetForAccount returns the service serving accountName.
func (r *ServiceRepository) GetForAccount(accountName string) (MetricsService, error) {
	for _, typ := range r.types {
		if s := r.services[typ]; s.ServicesAccount(accountName) {
			return s, nil
		}
	}
	return nil, canaryerr.Config("No metrics service was configured; unable to read from account %s.", accountName)
}

// QueryMetrics implements Querier by delegating to the service serving accountName.
func (r *ServiceRepository) QueryMetrics(ctx context.Context, accountName string, metricConfig MetricConfig, scope Scope) ([]MetricSet, error) {
	s, err := r.GetForAccount(accountName)
	if err != nil {
		return nil, err
	}
	return s.QueryMetrics(ctx, accountName, metricConfig, scope)
}

// Query is one independent invocation of a Querier.
type Query struct {
	AccountName  string
	MetricConfig MetricConfig
	Scope        Scope
}

// QueryAll runs the queries concurrently, at most limit at a time when limit > 0,
// and returns their results in input order. The first failure cancels the
// context passed to the remaining queries and is returned.
func QueryAll(ctx context.Context, q Querier, queries []Query, limit int) ([][]MetricSet, error) {
	results := make([][]MetricSet, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range queries {
		i := i
		g.Go(func() error {
			query := queries[i]
			sets, err := q.QueryMetrics(gctx, query.AccountName, query.MetricConfig, query.Scope)
			if err != nil {
				klog.Errorf("Query of metric %s for account %s failed: %v", query.MetricConfig.Name, query.AccountName, err)
				return err
			}
			results[i] = sets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
