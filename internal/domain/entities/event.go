package entities

import (
	"time"

	"github.com/google/uuid"
)

// PipelineEventType represents the type of pipeline event.
type PipelineEventType string

const (
	PipelineEventTypeDocumentProcessed PipelineEventType = "document_processed"
	PipelineEventTypeProfileUpdated    PipelineEventType = "profile_updated"
)

// PipelineEvent is published on the event bus after a pipeline stage
// completes, so downstream consumers (matching, dashboards) can react
// without polling.
type PipelineEvent struct {
	ID            string            `json:"id"`
	EventType     PipelineEventType `json:"event_type"`
	PatientID     string            `json:"patient_id"`
	DocumentID    string            `json:"document_id,omitempty"`
	EntityCount   int               `json:"entity_count,omitempty"`
	BusinessValue float64           `json:"business_value,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// NewPipelineEvent creates a pipeline event with its identity and
// timestamp stamped at construction.
func NewPipelineEvent(eventType PipelineEventType, patientID string) *PipelineEvent {
	return &PipelineEvent{
		ID:        uuid.New().String(),
		EventType: eventType,
		PatientID: patientID,
		Timestamp: time.Now().UTC(),
	}
}
