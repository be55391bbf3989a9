package entities

import "time"

// RawDocument is a clinical document exactly as received from a source
// system (the bronze layer). The content is unvalidated free text; the
// pipeline never mutates a document after ingestion.
type RawDocument struct {
	DocumentID         string    `json:"document_id"`
	PatientID          string    `json:"patient_id"`
	SourceSystem       string    `json:"source_system"`
	DocumentType       string    `json:"document_type"`
	RawContent         string    `json:"raw_content"`
	IngestionTimestamp time.Time `json:"ingestion_timestamp"`
}

// NewRawDocument creates an ingested document with its ingestion
// timestamp stamped at construction.
func NewRawDocument(documentID, patientID, sourceSystem, documentType, rawContent string) *RawDocument {
	return &RawDocument{
		DocumentID:         documentID,
		PatientID:          patientID,
		SourceSystem:       sourceSystem,
		DocumentType:       documentType,
		RawContent:         rawContent,
		IngestionTimestamp: time.Now().UTC(),
	}
}
