package services

import (
	"context"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/providers"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/repositories"
	"github.com/zatekoja/ehr-document-pipeline/internal/infrastructure/observability"
	"github.com/zatekoja/ehr-document-pipeline/pkg/retry"
)

// PipelineService orchestrates the staged document transformation:
// raw intake, entity extraction, and profile aggregation. Each stage
// appends an audit record to the transformation log and, when an event
// bus is attached, publishes a pipeline event for downstream
// consumers.
type PipelineService struct {
	extraction  *ExtractionService
	aggregation *AggregationService
	log         *TransformationLog
	documents   repositories.DocumentRepository
	entityStore repositories.EntityRepository
	profiles    repositories.ProfileRepository
	eventBus    providers.EventBus
	metrics     *observability.Metrics
}

// NewPipelineService creates a pipeline service. The transformation log
// is injected so its lifetime and visibility are owned by the caller.
func NewPipelineService(
	extraction *ExtractionService,
	aggregation *AggregationService,
	log *TransformationLog,
	documents repositories.DocumentRepository,
	entityStore repositories.EntityRepository,
	profiles repositories.ProfileRepository,
) *PipelineService {
	return &PipelineService{
		extraction:  extraction,
		aggregation: aggregation,
		log:         log,
		documents:   documents,
		entityStore: entityStore,
		profiles:    profiles,
	}
}

// SetEventBus attaches an event bus for publishing pipeline events.
// The pipeline works without one.
func (s *PipelineService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetMetrics attaches application metrics. The pipeline works without
// them.
func (s *PipelineService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// ProcessDocument stores the raw document, extracts clinical entities
// from its content, and persists them. Extraction itself never fails;
// only storage errors surface.
func (s *PipelineService) ProcessDocument(ctx context.Context, doc *entities.RawDocument) ([]*entities.EntityRecord, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.process_document")
	defer span.End()

	if err := s.documents.Save(ctx, doc); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	extracted := s.extraction.Extract(doc.RawContent)
	records := make([]*entities.EntityRecord, 0, len(extracted))
	for _, entity := range extracted {
		records = append(records, entities.NewEntityRecord(doc.DocumentID, doc.PatientID, entity))
	}
	if err := s.entityStore.SaveBatch(ctx, records); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	s.log.Append(entities.StageBronzeToSilver, doc.DocumentID, float64(len(records)))

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("document_id", doc.DocumentID).
		Str("patient_id", doc.PatientID).
		Str("document_type", doc.DocumentType).
		Int("entity_count", len(records)).
		Msg("document processed")

	if s.metrics != nil {
		observability.RecordStageMetrics(ctx, s.metrics, doc.DocumentType, len(records))
	}

	event := entities.NewPipelineEvent(entities.PipelineEventTypeDocumentProcessed, doc.PatientID)
	event.DocumentID = doc.DocumentID
	event.EntityCount = len(records)
	s.publish(ctx, event)

	return records, nil
}

// AggregateProfile builds the business-ready profile from one
// document's extracted entities plus demographics, and stores it. The
// stored profile replaces any prior profile for the patient.
func (s *PipelineService) AggregateProfile(ctx context.Context, patientID string, extracted []entities.ClinicalEntity, demographics entities.Demographics) (*entities.PatientProfile, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.aggregate_profile")
	defer span.End()

	profile := s.aggregation.Aggregate(patientID, extracted, demographics)
	if err := s.profiles.Put(ctx, profile); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	s.log.Append(entities.StageSilverToGold, patientID, profile.BusinessValue)

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("patient_id", patientID).
		Float64("business_value", profile.BusinessValue).
		Msg("profile aggregated")

	if s.metrics != nil {
		s.metrics.BusinessValue.Record(ctx, profile.BusinessValue)
	}

	event := entities.NewPipelineEvent(entities.PipelineEventTypeProfileUpdated, patientID)
	event.BusinessValue = profile.BusinessValue
	s.publish(ctx, event)

	return profile, nil
}

// Stats returns cumulative transformation statistics.
func (s *PipelineService) Stats() entities.PipelineStats {
	return s.log.Stats()
}

// publish sends an event on both the shared document channel and the
// patient-specific channel. Publish failures are logged, never
// propagated; the pipeline result is already durable by the time events
// go out.
func (s *PipelineService) publish(ctx context.Context, event *entities.PipelineEvent) {
	if s.eventBus == nil {
		return
	}

	cfg := retry.DefaultConfig()
	for _, channel := range []string{providers.EventChannelDocuments, providers.GetPatientChannel(event.PatientID)} {
		err := retry.Do(ctx, cfg, func() error {
			return s.eventBus.Publish(ctx, channel, event)
		})
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("failed to publish pipeline event")
		}
	}
}
