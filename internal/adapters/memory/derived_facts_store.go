package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

// DerivedFactsStore is an in-memory DerivedFactsRepository keyed by
// patient ID.
type DerivedFactsStore struct {
	mu    sync.RWMutex
	facts map[string]*entities.DerivedFacts
}

// NewDerivedFactsStore creates an empty derived facts store.
func NewDerivedFactsStore() *DerivedFactsStore {
	return &DerivedFactsStore{facts: make(map[string]*entities.DerivedFacts)}
}

// Put stores the derived facts for a patient, replacing any existing
// record.
func (s *DerivedFactsStore) Put(_ context.Context, facts *entities.DerivedFacts) error {
	if facts == nil || facts.PatientID == "" {
		return errors.NewValidationError("patient ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts[facts.PatientID] = facts
	return nil
}

// GetByPatient retrieves the derived facts for a patient.
func (s *DerivedFactsStore) GetByPatient(_ context.Context, patientID string) (*entities.DerivedFacts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	facts, ok := s.facts[patientID]
	if !ok {
		return nil, errors.NewNotFoundError("derived facts not found for patient: " + patientID)
	}
	return facts, nil
}

// ReplaceAll atomically replaces the full derived facts set.
func (s *DerivedFactsStore) ReplaceAll(_ context.Context, facts []*entities.DerivedFacts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = make(map[string]*entities.DerivedFacts, len(facts))
	for _, f := range facts {
		s.facts[f.PatientID] = f
	}
	return nil
}
