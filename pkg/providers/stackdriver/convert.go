package stackdriver

import (
	"math"

	monitoring "google.golang.org/api/monitoring/v3"

	"github.com/gocrane/canary-metrics/pkg/common"
)

// toTimeSeries converts a list response, keeping the backend's series and point order.
func toTimeSeries(resp *monitoring.ListTimeSeriesResponse) []common.TimeSeries {
	if resp == nil {
		return nil
	}

	out := make([]common.TimeSeries, 0, len(resp.TimeSeries))
	for _, ts := range resp.TimeSeries {
		if ts == nil {
			continue
		}
		series := common.TimeSeries{Points: make([]common.Point, 0, len(ts.Points))}
		if ts.Resource != nil {
			series.Labels = ts.Resource.Labels
		}
		for _, p := range ts.Points {
			if p == nil {
				continue
			}
			point := common.Point{Value: pointValue(p.Value)}
			if p.Interval != nil {
				point.StartTime = p.Interval.StartTime
				point.EndTime = p.Interval.EndTime
			}
			series.Points = append(series.Points, point)
		}
		out = append(out, series)
	}
	return out
}

// pointValue reads a numeric typed value; values of other kinds read as NaN.
func pointValue(v *monitoring.TypedValue) float64 {
	switch {
	case v == nil:
		return math.NaN()
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.Int64Value != nil:
		return float64(*v.Int64Value)
	default:
		return math.NaN()
	}
}
