package known

const (
	StackdriverServiceType = "stackdriver"
)

// Resource metadata tags used to scope a stackdriver query to a deployment.
const (
	StackdriverRegionTag      = "resource.metadata.tag.spinnaker-region"
	StackdriverServerGroupTag = "resource.metadata.tag.spinnaker-server-group"
	StackdriverProjectLabel   = "resource.labels.project_id"
	StackdriverResourceType   = "gce_instance"
)

const (
	ReduceMean = "REDUCE_MEAN"
	AlignMean  = "ALIGN_MEAN"
)

// Instrumentation label keys.
const (
	BackendLabel = "backend"
	ProjectLabel = "project"
	RegionLabel  = "region"
	MetricLabel  = "metric"
)
