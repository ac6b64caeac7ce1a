package stackdriver

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/pkg/config"
	"github.com/gocrane/canary-metrics/pkg/credentials"
	"github.com/gocrane/canary-metrics/pkg/known"
)

// Credentials is an authenticated monitoring client for one named account.
type Credentials struct {
	name       string
	project    string
	monitoring Client
}

func NewCredentials(name, project string, client Client) *Credentials {
	return &Credentials{name: name, project: project, monitoring: client}
}

func (c *Credentials) Name() string       { return c.name }
func (c *Credentials) Type() string       { return known.StackdriverServiceType }
func (c *Credentials) Project() string    { return c.project }
func (c *Credentials) Monitoring() Client { return c.monitoring }

// Configure authenticates every stackdriver account and saves its credentials
// into repo. It returns the names of the configured accounts.
func Configure(ctx context.Context, repo *credentials.Repository, accounts []config.AccountConfig, newClient ClientFactory) ([]string, error) {
	if newClient == nil {
		newClient = DefaultClientFactory
	}

	var names []string
	for _, account := range accounts {
		if account.Type != known.StackdriverServiceType {
			continue
		}
		client, err := newClient(ctx, account)
		if err != nil {
			klog.Errorf("Failed to configure stackdriver account %s: %v", account.Name, err)
			return nil, err
		}
		repo.Save(NewCredentials(account.Name, account.Project, client))
		names = append(names, account.Name)
		klog.Infof("Configured stackdriver account %s for project %s", account.Name, account.Project)
	}
	return names, nil
}
