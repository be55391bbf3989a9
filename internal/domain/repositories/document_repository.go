package repositories

import (
	"context"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// DocumentRepository defines the interface for raw document storage
// (the bronze layer)
type DocumentRepository interface {
	// Save stores a raw document, replacing any document with the same ID
	Save(ctx context.Context, doc *entities.RawDocument) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*entities.RawDocument, error)

	// ListByPatient retrieves all documents for a patient
	ListByPatient(ctx context.Context, patientID string) ([]*entities.RawDocument, error)

	// Count returns the number of stored documents
	Count(ctx context.Context) (int, error)
}

// EntityRepository defines the interface for extracted entity storage
// (the silver layer)
type EntityRepository interface {
	// SaveBatch stores the entities extracted from one document
	SaveBatch(ctx context.Context, records []*entities.EntityRecord) error

	// ListByDocument retrieves all entities extracted from a document
	ListByDocument(ctx context.Context, documentID string) ([]*entities.EntityRecord, error)

	// ListByPatient retrieves all entities extracted for a patient
	ListByPatient(ctx context.Context, patientID string) ([]*entities.EntityRecord, error)

	// List retrieves entities with pagination
	List(ctx context.Context, limit, offset int) ([]*entities.EntityRecord, int, error)
}

// ProfileRepository defines the interface for patient profile storage
// (the gold layer)
type ProfileRepository interface {
	// Put stores a profile, replacing any existing profile for the patient
	Put(ctx context.Context, profile *entities.PatientProfile) error

	// GetByPatient retrieves the profile for a patient
	GetByPatient(ctx context.Context, patientID string) (*entities.PatientProfile, error)

	// List retrieves profiles with pagination
	List(ctx context.Context, limit, offset int) ([]*entities.PatientProfile, int, error)
}
