package canary

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrane/canary-metrics/pkg/canaryerr"
	"github.com/gocrane/canary-metrics/pkg/common"
	"github.com/gocrane/canary-metrics/pkg/instrumentation"
)

var testStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

func testScope() Scope {
	return Scope{Scope: "myapp-v010", Region: "us-east1", Start: testStart, End: testStart.Add(300 * time.Second), Step: 60}
}

// newestFirst builds points for values given oldest-first, returned newest-first.
func newestFirst(start time.Time, step time.Duration, values ...float64) []common.Point {
	points := make([]common.Point, len(values))
	for i, v := range values {
		s := start.Add(time.Duration(i) * step)
		points[len(values)-1-i] = common.Point{
			StartTime: s.Format(time.RFC3339),
			EndTime:   s.Add(step).Format(time.RFC3339),
			Value:     v,
		}
	}
	return points
}

func newTestNormalizer() (*Normalizer, *instrumentation.PrometheusRecorder) {
	r := instrumentation.NewPrometheusRecorder(nil)
	return &Normalizer{Recorder: r}, r
}

func TestNormalizeReversesPointsAndCopiesLabels(t *testing.T) {
	n, r := newTestNormalizer()
	series := []common.TimeSeries{{
		Labels: map[string]string{"region": "us-east1"},
		Points: newestFirst(testStart, time.Minute, 1, 2, 3, 4, 5),
	}}

	sets, err := n.Normalize("cpu", testScope(), series)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	assert.Equal(t, MetricSet{
		Name:            "cpu",
		Tags:            map[string]string{"region": "us-east1"},
		StartTimeMillis: testStart.UnixMilli(),
		StartTimeIso:    "2017-01-01T00:00:00Z",
		StepMillis:      60000,
		Values:          []float64{1, 2, 3, 4, 5},
	}, sets[0])
	assert.Equal(t, float64(0), testutil.ToFloat64(r.PointCountMismatch.WithLabelValues("cpu")))
}

func TestNormalizeNoSeriesYieldsPlaceholder(t *testing.T) {
	for name, series := range map[string][]common.TimeSeries{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			n, r := newTestNormalizer()

			sets, err := n.Normalize("cpu", testScope(), series)
			require.NoError(t, err)
			require.Len(t, sets, 1)

			assert.Equal(t, "cpu", sets[0].Name)
			assert.Empty(t, sets[0].Values)
			assert.NotNil(t, sets[0].Values)
			assert.Nil(t, sets[0].Tags)
			assert.Equal(t, testStart, sets[0].StartTime())
			assert.Equal(t, "2017-01-01T00:00:00Z", sets[0].StartTimeIso)
			assert.Equal(t, int64(60000), sets[0].StepMillis)
			// 5 intervals expected, 0 received
			assert.Equal(t, float64(1), testutil.ToFloat64(r.PointCountMismatch.WithLabelValues("cpu")))
		})
	}
}

func TestNormalizeCountMismatchIsNotCorrected(t *testing.T) {
	n, r := newTestNormalizer()
	later := testStart.Add(2 * time.Minute)
	series := []common.TimeSeries{{Points: newestFirst(later, time.Minute, 3, 4, 5)}}

	sets, err := n.Normalize("cpu", testScope(), series)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	assert.Equal(t, []float64{3, 4, 5}, sets[0].Values)
	assert.Equal(t, later, sets[0].StartTime())
	assert.Nil(t, sets[0].Tags)
	assert.Equal(t, float64(1), testutil.ToFloat64(r.PointCountMismatch.WithLabelValues("cpu")))
}

func TestNormalizeSinglePoint(t *testing.T) {
	n, _ := newTestNormalizer()
	pointStart := testStart.Add(30 * time.Second)
	series := []common.TimeSeries{{Points: newestFirst(pointStart, time.Minute, 42)}}

	sets, err := n.Normalize("cpu", testScope(), series)
	require.NoError(t, err)

	assert.Equal(t, []float64{42}, sets[0].Values)
	assert.Equal(t, pointStart.UnixMilli(), sets[0].StartTimeMillis)
	assert.Equal(t, "2017-01-01T00:00:30Z", sets[0].StartTimeIso)
}

func TestNormalizeKeepsSeriesOrder(t *testing.T) {
	n, _ := newTestNormalizer()
	series := []common.TimeSeries{
		{Labels: map[string]string{"zone": "b"}, Points: newestFirst(testStart, time.Minute, 1, 2, 3, 4, 5)},
		{Labels: map[string]string{}, Points: newestFirst(testStart, time.Minute, 6, 7, 8, 9, 10)},
		{Labels: map[string]string{"zone": "a"}, Points: newestFirst(testStart, time.Minute, 11, 12, 13, 14, 15)},
	}

	sets, err := n.Normalize("cpu", testScope(), series)
	require.NoError(t, err)
	require.Len(t, sets, 3)

	assert.Equal(t, map[string]string{"zone": "b"}, sets[0].Tags)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, sets[0].Values)
	assert.Nil(t, sets[1].Tags, "empty labels must not produce an empty tag map")
	assert.Equal(t, []float64{6, 7, 8, 9, 10}, sets[1].Values)
	assert.Equal(t, map[string]string{"zone": "a"}, sets[2].Tags)
}

func TestNormalizeRejectsMalformedTimestamp(t *testing.T) {
	n, _ := newTestNormalizer()
	series := []common.TimeSeries{{Points: []common.Point{{StartTime: "yesterday", Value: 1}}}}

	_, err := n.Normalize("cpu", testScope(), series)
	require.Error(t, err)
	assert.True(t, canaryerr.Is(err, canaryerr.CodeParse))
}

func TestNormalizeWithoutRecorder(t *testing.T) {
	n := &Normalizer{}

	sets, err := n.Normalize("cpu", testScope(), nil)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}
