package common

// TimeSeries is a stream of points returned by a monitoring backend for one
// distinct combination of resource labels.
type TimeSeries struct {
	// Labels of the resource the backend reported the series for, e.g. the
	// instance's zone. Nil when the backend returned none.
	Labels map[string]string
	// A collection of Points in the order the backend returned them.
	Points []Point
}

// Point pairs a Value with the interval it was aggregated over. The interval
// boundaries are kept in the backend's textual form and parsed on demand.
type Point struct {
	StartTime string
	EndTime   string
	Value     float64
}

// Reverse reverses the order of the points in place.
func (ts *TimeSeries) Reverse() {
	for i, j := 0, len(ts.Points)-1; i < j; i, j = i+1, j-1 {
		ts.Points[i], ts.Points[j] = ts.Points[j], ts.Points[i]
	}
}

// Values returns the point values in their current order.
func (ts *TimeSeries) Values() []float64 {
	values := make([]float64, 0, len(ts.Points))
	for _, p := range ts.Points {
		values = append(values, p.Value)
	}
	return values
}
