package entities

import "time"

// ProcessingState tracks how far an EHR resource has progressed through
// ingestion.
type ProcessingState int

const (
	ProcessingStateUnspecified ProcessingState = 0
	ProcessingStateNotStarted  ProcessingState = 1
	ProcessingStateProcessing  ProcessingState = 2
	ProcessingStateCompleted   ProcessingState = 3
	ProcessingStateFailed      ProcessingState = 4
)

// ResourceIdentifier uniquely identifies an EHR resource.
type ResourceIdentifier struct {
	Key       string `json:"key"`
	UID       string `json:"uid"`
	PatientID string `json:"patient_id"`
}

// ResourceMetadata carries lifecycle and provenance data for a resource.
type ResourceMetadata struct {
	State         ProcessingState    `json:"state"`
	CreatedTime   time.Time          `json:"created_time"`
	FetchTime     time.Time          `json:"fetch_time"`
	ProcessedTime *time.Time         `json:"processed_time,omitempty"`
	Identifier    ResourceIdentifier `json:"identifier"`
	ResourceType  string             `json:"resource_type"`
	Version       int                `json:"version"`
}

// EHRResource is a single document-bearing resource fetched from an EHR
// source system.
type EHRResource struct {
	Metadata         ResourceMetadata `json:"metadata"`
	HumanReadableStr string           `json:"human_readable_str"`
	AISummary        string           `json:"ai_summary,omitempty"`
}
