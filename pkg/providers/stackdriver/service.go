package stackdriver

import (
	"context"

	monitoring "google.golang.org/api/monitoring/v3"
	"k8s.io/utils/clock"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/canaryerr"
	"github.com/gocrane/canary-metrics/pkg/credentials"
	"github.com/gocrane/canary-metrics/pkg/instrumentation"
	"github.com/gocrane/canary-metrics/pkg/known"
)

// Service is the canary.MetricsService for stackdriver accounts.
type Service struct {
	accountNames []string
	resolver     credentials.Resolver
	translator   QueryTranslator
	recorder     instrumentation.Recorder
	clock        clock.PassiveClock
	normalizer   *canary.Normalizer
}

type Option func(*Service)

func WithTranslator(t QueryTranslator) Option {
	return func(s *Service) { s.translator = t }
}

func WithRecorder(r instrumentation.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithClock(c clock.PassiveClock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService serves accountNames, resolving their credentials through resolver.
func NewService(accountNames []string, resolver credentials.Resolver, opts ...Option) *Service {
	s := &Service{
		accountNames: accountNames,
		resolver:     resolver,
		translator:   GCEInstanceTranslator{},
		recorder:     instrumentation.NopRecorder,
		clock:        clock.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder = instrumentation.OrNop(s.recorder)
	s.normalizer = &canary.Normalizer{Recorder: s.recorder}
	return s
}

func (s *Service) Type() string {
	return known.StackdriverServiceType
}

func (s *Service) ServicesAccount(accountName string) bool {
	for _, name := range s.accountNames {
		if name == accountName {
			return true
		}
	}
	return false
}

func (s *Service) QueryMetrics(ctx context.Context, accountName string, metricConfig canary.MetricConfig, scope canary.Scope) ([]canary.MetricSet, error) {
	creds, err := s.resolve(accountName)
	if err != nil {
		return nil, err
	}

	var queryConfig QueryConfig
	switch q := metricConfig.Query.(type) {
	case QueryConfig:
		queryConfig = q
	case *QueryConfig:
		if q == nil {
			return nil, canaryerr.Config("Metric %s does not carry a stackdriver query.", metricConfig.Name)
		}
		queryConfig = *q
	default:
		return nil, canaryerr.Config("Metric %s does not carry a stackdriver query.", metricConfig.Name)
	}

	query := s.translator.Translate(creds.Project(), queryConfig, scope)

	resp, err := s.fetch(ctx, creds, query, scope.Region)
	if err != nil {
		return nil, canaryerr.Backend(err, "list time series for metric %s in %s", metricConfig.Name, query.Name)
	}

	return s.normalizer.Normalize(metricConfig.Name, scope, toTimeSeries(resp))
}

func (s *Service) resolve(accountName string) (*Credentials, error) {
	c, ok := s.resolver.GetOne(accountName)
	if !ok {
		return nil, canaryerr.Config("Unable to resolve account %s.", accountName)
	}
	creds, ok := c.(*Credentials)
	if !ok {
		return nil, canaryerr.Config("Account %s is a %s account, not a %s account.", accountName, c.Type(), known.StackdriverServiceType)
	}
	return creds, nil
}

// fetch records the call's duration on every exit path.
func (s *Service) fetch(ctx context.Context, creds *Credentials, query *Query, region string) (*monitoring.ListTimeSeriesResponse, error) {
	start := s.clock.Now()
	defer func() {
		s.recorder.ObserveFetchTime(known.StackdriverServiceType, creds.Project(), region, s.clock.Since(start))
	}()

	return creds.Monitoring().ListTimeSeries(ctx, query)
}
