package canary

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrane/canary-metrics/pkg/canaryerr"
)

type stubService struct {
	typ      string
	accounts []string
	fail     map[string]error
	calls    atomic.Int32
}

func (s *stubService) Type() string { return s.typ }

func (s *stubService) ServicesAccount(accountName string) bool {
	for _, a := range s.accounts {
		if a == accountName {
			return true
		}
	}
	return false
}

func (s *stubService) QueryMetrics(ctx context.Context, accountName string, metricConfig MetricConfig, scope Scope) ([]MetricSet, error) {
	s.calls.Add(1)
	if err := s.fail[metricConfig.Name]; err != nil {
		return nil, err
	}
	return []MetricSet{{Name: metricConfig.Name, Tags: map[string]string{"account": accountName}}}, nil
}

func TestServiceRepositoryRoutesByAccount(t *testing.T) {
	sd := &stubService{typ: "stackdriver", accounts: []string{"google"}}
	other := &stubService{typ: "atlas", accounts: []string{"netflix"}}
	repo, err := NewServiceRepository(sd, other)
	require.NoError(t, err)

	s, err := repo.GetForAccount("google")
	require.NoError(t, err)
	assert.Equal(t, "stackdriver", s.Type())

	s, err = repo.GetForAccount("netflix")
	require.NoError(t, err)
	assert.Equal(t, "atlas", s.Type())

	sets, err := repo.QueryMetrics(context.Background(), "netflix", MetricConfig{Name: "cpu"}, Scope{})
	require.NoError(t, err)
	assert.Equal(t, "netflix", sets[0].Tags["account"])

	_, err = repo.QueryMetrics(context.Background(), "unknown", MetricConfig{Name: "cpu"}, Scope{})
	assert.True(t, canaryerr.Is(err, canaryerr.CodeConfig))
	assert.Contains(t, err.Error(), "unknown")
}

func TestServiceRepositoryRejectsDuplicateType(t *testing.T) {
	_, err := NewServiceRepository(&stubService{typ: "stackdriver"}, &stubService{typ: "STACKDRIVER"})
	assert.True(t, canaryerr.Is(err, canaryerr.CodeConfig))
	assert.Contains(t, err.Error(), "already registered")

	_, err = NewServiceRepository(&stubService{})
	assert.True(t, canaryerr.Is(err, canaryerr.CodeConfig))
}

func TestQueryAllKeepsInputOrder(t *testing.T) {
	sd := &stubService{typ: "stackdriver", accounts: []string{"google"}}
	names := []string{"cpu", "memory", "disk", "network"}
	var queries []Query
	for _, n := range names {
		queries = append(queries, Query{AccountName: "google", MetricConfig: MetricConfig{Name: n}})
	}

	results, err := QueryAll(context.Background(), sd, queries, 2)
	require.NoError(t, err)
	require.Len(t, results, len(names))
	for i, n := range names {
		assert.Equal(t, n, results[i][0].Name)
	}
	assert.Equal(t, int32(len(names)), sd.calls.Load())
}

func TestQueryAllReturnsFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	sd := &stubService{typ: "stackdriver", accounts: []string{"google"}, fail: map[string]error{"memory": boom}}
	queries := []Query{
		{AccountName: "google", MetricConfig: MetricConfig{Name: "cpu"}},
		{AccountName: "google", MetricConfig: MetricConfig{Name: "memory"}},
	}

	results, err := QueryAll(context.Background(), sd, queries, 0)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, results)
}
