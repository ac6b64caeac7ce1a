package canary

import (
	"maps"
	"time"

	"k8s.io/klog/v2"

	"github.com/gocrane/canary-metrics/pkg/canaryerr"
	"github.com/gocrane/canary-metrics/pkg/common"
	"github.com/gocrane/canary-metrics/pkg/instrumentation"
)

// Normalizer turns the series returned by a backend into metric sets.
type Normalizer struct {
	// Recorder counts series with an unexpected number of points. Optional.
	Recorder instrumentation.Recorder
}

// Normalize converts series into one MetricSet per series, in the order given.
// Points are assumed most-recent-first and are reversed in place. When series
// is empty a single empty MetricSet anchored at scope.Start is returned, so a
// query that matched nothing still yields a record.
//
// A series whose point count differs from the number of intervals in the scope
// is logged and kept as is; it is never padded or truncated.
func (n *Normalizer) Normalize(metricName string, scope Scope, series []common.TimeSeries) ([]MetricSet, error) {
	recorder := instrumentation.OrNop(n.Recorder)
	expected := ExpectedIntervals(scope.Start, scope.End, scope.Step)

	if len(series) == 0 {
		series = []common.TimeSeries{{}}
	}

	metricSets := make([]MetricSet, 0, len(series))
	for i := range series {
		ts := &series[i]

		if int64(len(ts.Points)) != expected {
			pointOrPoints := "points"
			if expected == 1 {
				pointOrPoints = "point"
			}
			klog.Warningf("Expected %d data %s, but received %d.", expected, pointOrPoints, len(ts.Points))
			recorder.IncPointCountMismatch(metricName)
		}

		ts.Reverse()

		start := scope.Start
		if len(ts.Points) > 0 {
			t, err := time.Parse(time.RFC3339Nano, ts.Points[0].StartTime)
			if err != nil {
				return nil, canaryerr.Parse(err, "metric %s: point start time %q", metricName, ts.Points[0].StartTime)
			}
			start = t
		}

		metricSet := MetricSet{
			Name:            metricName,
			StartTimeMillis: start.UnixMilli(),
			StartTimeIso:    FormatInstant(start),
			StepMillis:      scope.Step * 1000,
			Values:          ts.Values(),
		}
		if len(ts.Labels) > 0 {
			metricSet.Tags = maps.Clone(ts.Labels)
		}

		metricSets = append(metricSets, metricSet)
	}

	klog.V(4).Infof("Normalized %d series for metric %s", len(metricSets), metricName)
	return metricSets, nil
}
