package canary

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// QueryConfig is the backend-specific part of a metric configuration.
type QueryConfig interface {
	// ServiceType names the metrics service able to run the query, e.g. "stackdriver".
	ServiceType() string
}

// MetricConfig describes one metric of a canary configuration.
type MetricConfig struct {
	Name  string
	Query QueryConfig
}

// Scope identifies which subset of telemetry to fetch.
type Scope struct {
	// Scope is the deployment discriminator, e.g. a server group name.
	Scope  string
	Region string
	Start  time.Time
	End    time.Time
	// Step is the alignment period in seconds.
	Step int64
}

// Validate checks the invariants of a scope: start <= end and step > 0.
func (s Scope) Validate() error {
	if s.End.Before(s.Start) {
		return fmt.Errorf("scope end %s is before start %s", FormatInstant(s.End), FormatInstant(s.Start))
	}
	if s.Step <= 0 {
		return fmt.Errorf("scope step must be positive, got %d", s.Step)
	}
	return nil
}

// MetricSet is one normalized fixed-cadence series.
type MetricSet struct {
	Name            string            `json:"name" yaml:"name"`
	Tags            map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	StartTimeMillis int64             `json:"startTimeMillis" yaml:"startTimeMillis"`
	StartTimeIso    string            `json:"startTimeIso" yaml:"startTimeIso"`
	StepMillis      int64             `json:"stepMillis" yaml:"stepMillis"`
	Values          []float64         `json:"values" yaml:"values"`
}

// StartTime returns the start instant of the first value.
func (m MetricSet) StartTime() time.Time {
	return time.UnixMilli(m.StartTimeMillis).UTC()
}

// metricSetJSON is the wire form of a MetricSet. A missing value is null.
type metricSetJSON struct {
	Name            string            `json:"name"`
	Tags            map[string]string `json:"tags,omitempty"`
	StartTimeMillis int64             `json:"startTimeMillis"`
	StartTimeIso    string            `json:"startTimeIso"`
	StepMillis      int64             `json:"stepMillis"`
	Values          []*float64        `json:"values"`
}

// MarshalJSON writes NaN and infinite values as null.
func (m MetricSet) MarshalJSON() ([]byte, error) {
	var values []*float64
	if m.Values != nil {
		values = make([]*float64, len(m.Values))
		for i, v := range m.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			v := v
			values[i] = &v
		}
	}
	return json.Marshal(metricSetJSON{
		Name:            m.Name,
		Tags:            m.Tags,
		StartTimeMillis: m.StartTimeMillis,
		StartTimeIso:    m.StartTimeIso,
		StepMillis:      m.StepMillis,
		Values:          values,
	})
}

// UnmarshalJSON reads null values back as NaN.
func (m *MetricSet) UnmarshalJSON(data []byte) error {
	var raw metricSetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var values []float64
	if raw.Values != nil {
		values = make([]float64, len(raw.Values))
		for i, v := range raw.Values {
			if v == nil {
				values[i] = math.NaN()
				continue
			}
			values[i] = *v
		}
	}
	*m = MetricSet{
		Name:            raw.Name,
		Tags:            raw.Tags,
		StartTimeMillis: raw.StartTimeMillis,
		StartTimeIso:    raw.StartTimeIso,
		StepMillis:      raw.StepMillis,
		Values:          values,
	}
	return nil
}

// FormatInstant renders t the way MetricSet.StartTimeIso carries it.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
