// Package memory provides mutex-guarded in-memory implementations of the
// domain repositories. Stored records are treated as immutable: callers
// must not mutate values after handing them to a store or after reading
// them back.
package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

// DocumentStore is an in-memory DocumentRepository.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]*entities.RawDocument
	order []string
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*entities.RawDocument)}
}

// Save stores a raw document, replacing any document with the same ID.
func (s *DocumentStore) Save(_ context.Context, doc *entities.RawDocument) error {
	if doc == nil || doc.DocumentID == "" {
		return errors.NewValidationError("document ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.DocumentID]; !exists {
		s.order = append(s.order, doc.DocumentID)
	}
	s.docs[doc.DocumentID] = doc
	return nil
}

// GetByID retrieves a document by ID.
func (s *DocumentStore) GetByID(_ context.Context, id string) (*entities.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, errors.NewNotFoundError("document not found: " + id)
	}
	return doc, nil
}

// ListByPatient retrieves all documents for a patient in insertion order.
func (s *DocumentStore) ListByPatient(_ context.Context, patientID string) ([]*entities.RawDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*entities.RawDocument
	for _, id := range s.order {
		if doc := s.docs[id]; doc.PatientID == patientID {
			result = append(result, doc)
		}
	}
	return result, nil
}

// Count returns the number of stored documents.
func (s *DocumentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}
