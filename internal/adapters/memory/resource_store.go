package memory

import (
	"context"
	"sync"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/repositories"
	"github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

// ResourceStore is an in-memory ResourceRepository keyed by the
// resource identifier key.
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[string]*entities.EHRResource
	order     []string
}

// NewResourceStore creates an empty resource store.
func NewResourceStore() *ResourceStore {
	return &ResourceStore{resources: make(map[string]*entities.EHRResource)}
}

// Save stores a resource, replacing any resource with the same key.
func (s *ResourceStore) Save(_ context.Context, resource *entities.EHRResource) error {
	if resource == nil || resource.Metadata.Identifier.Key == "" {
		return errors.NewValidationError("resource key is required")
	}
	key := resource.Metadata.Identifier.Key
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.resources[key]; !exists {
		s.order = append(s.order, key)
	}
	s.resources[key] = resource
	return nil
}

// GetByKey retrieves a resource by its identifier key.
func (s *ResourceStore) GetByKey(_ context.Context, key string) (*entities.EHRResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resource, ok := s.resources[key]
	if !ok {
		return nil, errors.NewNotFoundError("resource not found: " + key)
	}
	return resource, nil
}

// List retrieves resources matching the filter in insertion order,
// along with the total match count before pagination.
func (s *ResourceStore) List(_ context.Context, filter repositories.ResourceFilter) ([]*entities.EHRResource, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*entities.EHRResource
	for _, key := range s.order {
		r := s.resources[key]
		if filter.PatientID != "" && r.Metadata.Identifier.PatientID != filter.PatientID {
			continue
		}
		if filter.State != entities.ProcessingStateUnspecified && r.Metadata.State != filter.State {
			continue
		}
		if filter.ResourceType != "" && r.Metadata.ResourceType != filter.ResourceType {
			continue
		}
		matched = append(matched, r)
	}
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

// ReplaceAll atomically replaces the full resource set.
func (s *ResourceStore) ReplaceAll(_ context.Context, resources []*entities.EHRResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = make(map[string]*entities.EHRResource, len(resources))
	s.order = s.order[:0]
	for _, r := range resources {
		key := r.Metadata.Identifier.Key
		if _, exists := s.resources[key]; !exists {
			s.order = append(s.order, key)
		}
		s.resources[key] = r
	}
	return nil
}
