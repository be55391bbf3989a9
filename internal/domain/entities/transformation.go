package entities

import "time"

// Pipeline stage names recorded in the transformation log.
const (
	StageBronzeToSilver = "bronze_to_silver"
	StageSilverToGold   = "silver_to_gold"
)

// TransformationRecord is one append-only audit entry describing a
// completed pipeline stage. The metric is stage-specific: entity count
// for extraction, business value for aggregation.
type TransformationRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Stage     string    `json:"stage"`
	SubjectID string    `json:"subject_id"`
	Metric    float64   `json:"metric"`
}

// PipelineStats summarizes the transformation log. LastTransformation is
// nil while the log is empty.
type PipelineStats struct {
	TotalTransformations int            `json:"total_transformations"`
	Stages               map[string]int `json:"stages"`
	LastTransformation   *time.Time     `json:"last_transformation,omitempty"`
}
