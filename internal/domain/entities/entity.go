package entities

import "time"

// EntityKind identifies the class of a clinical entity extracted from
// document text.
type EntityKind string

const (
	EntityKindMedication EntityKind = "medication"
	EntityKindDiagnosis  EntityKind = "diagnosis"
	EntityKindLabValue   EntityKind = "lab_value"

	// EntityKindContraindication is declared but no extraction rule
	// produces it yet; the profile aggregator carries the partition so
	// contraindication rules can be added without touching aggregation.
	EntityKindContraindication EntityKind = "contraindication"
)

// ClinicalEntity is a single structured fact extracted from raw document
// text (the silver layer). One entity is produced per pattern match;
// entities are never merged or deduplicated, and their slice order is the
// extraction discovery order.
type ClinicalEntity struct {
	Kind            EntityKind `json:"entity_type"`
	Value           string     `json:"entity_value"`
	ConfidenceScore float64    `json:"confidence_score"`
	ExtractedFrom   string     `json:"extracted_from"`
	NormalizedCode  string     `json:"normalized_code,omitempty"`
	TemporalInfo    string     `json:"temporal_info,omitempty"`
	QualityScore    float64    `json:"quality_score"`
}

// NewEntityRecord stamps an extracted entity with its document
// provenance and processing time.
func NewEntityRecord(documentID, patientID string, entity ClinicalEntity) *EntityRecord {
	return &EntityRecord{
		DocumentID:  documentID,
		PatientID:   patientID,
		Entity:      entity,
		ProcessedAt: time.Now().UTC(),
	}
}

// EntityRecord associates an extracted entity with the document and
// patient it came from, for storage and filtered listing.
type EntityRecord struct {
	DocumentID  string         `json:"document_id"`
	PatientID   string         `json:"patient_id"`
	Entity      ClinicalEntity `json:"entity"`
	ProcessedAt time.Time      `json:"processed_at"`
}
