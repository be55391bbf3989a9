package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/providers"
)

// httpCachePattern matches every cached HTTP response. Cache keys are
// hashed, so per-route invalidation is not possible; the dataset is
// small enough that dropping the whole response cache is cheap.
const httpCachePattern = "http:cache:*"

// CacheInvalidationService drops cached HTTP responses when pipeline
// events announce new data, so reads never serve a profile or entity
// list older than the last processed document.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for pipeline events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelDocuments)
	if err != nil {
		return fmt.Errorf("failed to subscribe to pipeline events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.PipelineEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.PipelineEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.cache.DeletePattern(ctx, httpCachePattern); err != nil {
		log.Warn().
			Err(err).
			Str("event_id", event.ID).
			Str("patient_id", event.PatientID).
			Msg("failed to invalidate response cache")
		return
	}

	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Str("patient_id", event.PatientID).
		Msg("response cache invalidated")
}
