package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

// ProfileStore is an in-memory ProfileRepository keyed by patient ID.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*entities.PatientProfile
	order    []string
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]*entities.PatientProfile)}
}

// Put stores a profile, replacing any existing profile for the patient.
func (s *ProfileStore) Put(_ context.Context, profile *entities.PatientProfile) error {
	if profile == nil || profile.PatientID == "" {
		return errors.NewValidationError("patient ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.PatientID]; !exists {
		s.order = append(s.order, profile.PatientID)
	}
	s.profiles[profile.PatientID] = profile
	return nil
}

// GetByPatient retrieves the profile for a patient.
func (s *ProfileStore) GetByPatient(_ context.Context, patientID string) (*entities.PatientProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[patientID]
	if !ok {
		return nil, errors.NewNotFoundError("profile not found for patient: " + patientID)
	}
	return profile, nil
}

// List retrieves profiles with pagination and the total profile count.
func (s *ProfileStore) List(_ context.Context, limit, offset int) ([]*entities.PatientProfile, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*entities.PatientProfile, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.profiles[id])
	}
	return paginate(all, limit, offset), len(all), nil
}
