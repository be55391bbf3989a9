package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

// PatientStore is an in-memory PatientRepository.
type PatientStore struct {
	mu       sync.RWMutex
	patients map[string]*entities.Patient
	order    []string
}

// NewPatientStore creates an empty patient store.
func NewPatientStore() *PatientStore {
	return &PatientStore{patients: make(map[string]*entities.Patient)}
}

// Save stores a patient, replacing any patient with the same ID.
func (s *PatientStore) Save(_ context.Context, patient *entities.Patient) error {
	if patient == nil || patient.ID == "" {
		return errors.NewValidationError("patient ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.patients[patient.ID]; !exists {
		s.order = append(s.order, patient.ID)
	}
	s.patients[patient.ID] = patient
	return nil
}

// GetByID retrieves a patient by ID.
func (s *PatientStore) GetByID(_ context.Context, id string) (*entities.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patient, ok := s.patients[id]
	if !ok {
		return nil, errors.NewNotFoundError("patient not found: " + id)
	}
	return patient, nil
}

// List retrieves patients with pagination and the total patient count.
func (s *PatientStore) List(_ context.Context, limit, offset int) ([]*entities.Patient, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*entities.Patient, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.patients[id])
	}
	return paginate(all, limit, offset), len(all), nil
}

// ReplaceAll atomically replaces the full patient set.
func (s *PatientStore) ReplaceAll(_ context.Context, patients []*entities.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = make(map[string]*entities.Patient, len(patients))
	s.order = s.order[:0]
	for _, p := range patients {
		if _, exists := s.patients[p.ID]; !exists {
			s.order = append(s.order, p.ID)
		}
		s.patients[p.ID] = p
	}
	return nil
}
