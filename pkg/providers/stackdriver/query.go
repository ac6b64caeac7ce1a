package stackdriver

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocrane/canary-metrics/pkg/canary"
	"github.com/gocrane/canary-metrics/pkg/known"
)

// QueryConfig is the stackdriver part of a metric configuration.
type QueryConfig struct {
	MetricType    string   `json:"metricType" yaml:"metricType"`
	GroupByFields []string `json:"groupByFields,omitempty" yaml:"groupByFields,omitempty"`
}

func (QueryConfig) ServiceType() string {
	return known.StackdriverServiceType
}

// Query is a fully translated list request against the monitoring API.
type Query struct {
	// Name is the project-qualified resource path, "projects/<id>".
	Name               string
	Filter             string
	AlignmentPeriod    string
	CrossSeriesReducer string
	PerSeriesAligner   string
	GroupByFields      []string
	IntervalStartTime  string
	IntervalEndTime    string
}

// QueryTranslator turns a metric query and scope into the backend's query vocabulary.
type QueryTranslator interface {
	Translate(project string, query QueryConfig, scope canary.Scope) *Query
}

// TimeFormatter renders an instant the way the backend expects interval boundaries.
type TimeFormatter func(time.Time) string

// GCEInstanceTranslator scopes queries to gce_instance resources tagged with
// the region and server group of the scope. The filter is not validated;
// malformed values surface as backend errors.
type GCEInstanceTranslator struct {
	// FormatTime formats the interval boundaries. Defaults to canary.FormatInstant.
	FormatTime TimeFormatter
}

func (t GCEInstanceTranslator) Translate(project string, query QueryConfig, scope canary.Scope) *Query {
	format := t.FormatTime
	if format == nil {
		format = canary.FormatInstant
	}

	q := &Query{
		Name:               "projects/" + project,
		Filter:             buildFilter(project, query.MetricType, scope),
		AlignmentPeriod:    fmt.Sprintf("%ds", scope.Step),
		CrossSeriesReducer: known.ReduceMean,
		PerSeriesAligner:   known.AlignMean,
		IntervalStartTime:  format(scope.Start),
		IntervalEndTime:    format(scope.End),
	}
	if query.GroupByFields != nil {
		q.GroupByFields = append([]string(nil), query.GroupByFields...)
	}
	return q
}

func buildFilter(project, metricType string, scope canary.Scope) string {
	predicates := []string{
		`metric.type="` + metricType + `"`,
		known.StackdriverProjectLabel + "=" + project,
		known.StackdriverRegionTag + "=" + scope.Region,
		known.StackdriverServerGroupTag + "=" + scope.Scope,
		"resource.type = " + known.StackdriverResourceType,
	}
	return strings.Join(predicates, " AND ")
}
