package instrumentation

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveFetchTime("stackdriver", "my-project", "us-east1", 1500*time.Millisecond)
	r.ObserveFetchTime("stackdriver", "my-project", "us-east1", 500*time.Millisecond)
	r.IncPointCountMismatch("cpu")

	assert.Equal(t, 1, testutil.CollectAndCount(r.FetchTime))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.PointCountMismatch.WithLabelValues("cpu")))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 2)
	for _, mf := range families {
		if mf.GetName() != "canary_metrics_fetch_time_seconds" {
			continue
		}
		h := mf.GetMetric()[0].GetHistogram()
		assert.Equal(t, uint64(2), h.GetSampleCount())
		assert.InDelta(t, 2.0, h.GetSampleSum(), 1e-9)
	}
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopRecorder, OrNop(nil))

	r := NewPrometheusRecorder(nil)
	assert.Equal(t, Recorder(r), OrNop(r))
}
