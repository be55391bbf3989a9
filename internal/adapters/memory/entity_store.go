package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

// EntityStore is an in-memory EntityRepository. Records are kept in
// insertion order so paginated reads are stable.
type EntityStore struct {
	mu      sync.RWMutex
	records []*entities.EntityRecord
}

// NewEntityStore creates an empty entity store.
func NewEntityStore() *EntityStore {
	return &EntityStore{}
}

// SaveBatch stores the entities extracted from one document.
func (s *EntityStore) SaveBatch(_ context.Context, records []*entities.EntityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
	return nil
}

// ListByDocument retrieves all entities extracted from a document.
func (s *EntityStore) ListByDocument(_ context.Context, documentID string) ([]*entities.EntityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*entities.EntityRecord
	for _, r := range s.records {
		if r.DocumentID == documentID {
			result = append(result, r)
		}
	}
	return result, nil
}

// ListByPatient retrieves all entities extracted for a patient.
func (s *EntityStore) ListByPatient(_ context.Context, patientID string) ([]*entities.EntityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*entities.EntityRecord
	for _, r := range s.records {
		if r.PatientID == patientID {
			result = append(result, r)
		}
	}
	return result, nil
}

// List retrieves entities with pagination and the total record count.
func (s *EntityStore) List(_ context.Context, limit, offset int) ([]*entities.EntityRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.records)
	page := paginate(s.records, limit, offset)
	return page, total, nil
}

// paginate slices a window out of records. A limit of zero means no
// limit.
func paginate[T any](records []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	result := make([]T, end-offset)
	copy(result, records[offset:end])
	return result
}
