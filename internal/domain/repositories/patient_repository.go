package repositories

import (
	"context"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// PatientRepository defines the interface for registered patient records
type PatientRepository interface {
	// Save stores a patient, replacing any patient with the same ID
	Save(ctx context.Context, patient *entities.Patient) error

	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id string) (*entities.Patient, error)

	// List retrieves patients with pagination
	List(ctx context.Context, limit, offset int) ([]*entities.Patient, int, error)

	// ReplaceAll atomically replaces the full patient set
	ReplaceAll(ctx context.Context, patients []*entities.Patient) error
}

// ResourceFilter defines filters for listing EHR resources
type ResourceFilter struct {
	PatientID    string
	State        entities.ProcessingState
	ResourceType string
	Limit        int
	Offset       int
}

// ResourceRepository defines the interface for EHR resource records
type ResourceRepository interface {
	// Save stores a resource, replacing any resource with the same key
	Save(ctx context.Context, resource *entities.EHRResource) error

	// GetByKey retrieves a resource by its identifier key
	GetByKey(ctx context.Context, key string) (*entities.EHRResource, error)

	// List retrieves resources matching the filter, with the total count
	// before pagination
	List(ctx context.Context, filter ResourceFilter) ([]*entities.EHRResource, int, error)

	// ReplaceAll atomically replaces the full resource set
	ReplaceAll(ctx context.Context, resources []*entities.EHRResource) error
}

// DerivedFactsRepository defines the interface for curated clinical
// summaries
type DerivedFactsRepository interface {
	// Put stores the derived facts for a patient, replacing any existing
	// record
	Put(ctx context.Context, facts *entities.DerivedFacts) error

	// GetByPatient retrieves the derived facts for a patient
	GetByPatient(ctx context.Context, patientID string) (*entities.DerivedFacts, error)

	// ReplaceAll atomically replaces the full derived facts set
	ReplaceAll(ctx context.Context, facts []*entities.DerivedFacts) error
}
