package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/config"
	"github.com/gocrane/canary-metrics/pkg/credentials"
	"github.com/gocrane/canary-metrics/pkg/instrumentation"
	"github.com/gocrane/canary-metrics/pkg/known"
	"github.com/gocrane/canary-metrics/pkg/providers/stackdriver"
)

const programName = "canary_metrics"

// environment is what every command needs to run queries.
type environment struct {
	registry *prometheus.Registry
	services *canary.ServiceRepository
}

// setupEnvironment authenticates the configured accounts and builds the
// metrics services serving them.
func setupEnvironment(ctx context.Context, cfg *config.Config, newClient stackdriver.ClientFactory) (*environment, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector(programName),
	)
	recorder := instrumentation.NewPrometheusRecorder(reg)

	repo := credentials.NewRepository()
	names, err := stackdriver.Configure(ctx, repo, cfg.AccountsOfType(known.StackdriverServiceType), newClient)
	if err != nil {
		return nil, err
	}

	services, err := canary.NewServiceRepository(
		stackdriver.NewService(names, repo, stackdriver.WithRecorder(recorder)),
	)
	if err != nil {
		return nil, err
	}

	klog.Infof("Configured accounts %v", repo.ListKeys())
	return &environment{registry: reg, services: services}, nil
}
