package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/zatekoja/ehr-document-pipeline/internal/application/services"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/repositories"
	apperrors "github.com/zatekoja/ehr-document-pipeline/pkg/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// PipelineHandler handles document processing and pipeline query requests
type PipelineHandler struct {
	pipeline    *services.PipelineService
	documents   repositories.DocumentRepository
	entityStore repositories.EntityRepository
	profiles    repositories.ProfileRepository
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(
	pipeline *services.PipelineService,
	documents repositories.DocumentRepository,
	entityStore repositories.EntityRepository,
	profiles repositories.ProfileRepository,
) *PipelineHandler {
	return &PipelineHandler{
		pipeline:    pipeline,
		documents:   documents,
		entityStore: entityStore,
		profiles:    profiles,
	}
}

// ProcessDocumentRequest is the payload for submitting a document
type ProcessDocumentRequest struct {
	PatientID    string                `json:"patient_id"`
	DocumentType string                `json:"document_type"`
	Content      string                `json:"content"`
	SourceSystem string                `json:"source_system"`
	Demographics entities.Demographics `json:"demographics"`
}

// ProcessDocument handles POST /api/documents. The document runs through
// the full pipeline: raw storage, entity extraction, and profile
// aggregation.
func (h *PipelineHandler) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	var req ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.PatientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient_id is required")
		return
	}
	if req.Content == "" {
		respondWithError(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.DocumentType == "" {
		req.DocumentType = "clinical_note"
	}
	if req.SourceSystem == "" {
		req.SourceSystem = "api_upload"
	}

	ctx := r.Context()

	// Concurrent submissions must never mint the same document id.
	docID := fmt.Sprintf("doc_%s_%s", req.PatientID, uuid.NewString())

	doc := entities.NewRawDocument(docID, req.PatientID, req.SourceSystem, req.DocumentType, req.Content)
	records, err := h.pipeline.ProcessDocument(ctx, doc)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	extracted := make([]entities.ClinicalEntity, 0, len(records))
	for _, record := range records {
		extracted = append(extracted, record.Entity)
	}

	profile, err := h.pipeline.AggregateProfile(ctx, req.PatientID, extracted, req.Demographics)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"document_id":  doc.DocumentID,
		"entity_count": len(records),
		"entities":     records,
		"profile":      profile,
	})
}

// ListEntities handles GET /api/pipeline/entities. Supports filtering by
// document_id, patient_id, and entity_type; results are paginated.
func (h *PipelineHandler) ListEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	var records []*entities.EntityRecord
	var err error
	switch {
	case query.Get("document_id") != "":
		records, err = h.entityStore.ListByDocument(ctx, query.Get("document_id"))
	case query.Get("patient_id") != "":
		records, err = h.entityStore.ListByPatient(ctx, query.Get("patient_id"))
	default:
		records, _, err = h.entityStore.List(ctx, 0, 0)
	}
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if kind := query.Get("entity_type"); kind != "" {
		filtered := make([]*entities.EntityRecord, 0, len(records))
		for _, record := range records {
			if record.Entity.Kind == entities.EntityKind(kind) {
				filtered = append(filtered, record)
			}
		}
		records = filtered
	}

	total := len(records)
	limit, offset := parsePagination(query.Get("limit"), query.Get("offset"))
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := records[offset:end]

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entities":    page,
		"total_count": total,
		"has_more":    end < total,
	})
}

// ListProfiles handles GET /api/pipeline/profiles
func (h *PipelineHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))

	profiles, total, err := h.profiles.List(r.Context(), limit, offset)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"profiles":    profiles,
		"total_count": total,
		"has_more":    offset+len(profiles) < total,
	})
}

// GetStats handles GET /api/pipeline/stats. Combines cumulative
// transformation statistics with current storage counts.
func (h *PipelineHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	documentCount, err := h.documents.Count(ctx)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	records, entityCount, err := h.entityStore.List(ctx, 0, 0)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	profiles, profileCount, err := h.profiles.List(ctx, 0, 0)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	avgConfidence := 0.0
	for _, record := range records {
		avgConfidence += record.Entity.ConfidenceScore
	}
	if len(records) > 0 {
		avgConfidence /= float64(len(records))
	}

	avgBusinessValue := 0.0
	for _, profile := range profiles {
		avgBusinessValue += profile.BusinessValue
	}
	if len(profiles) > 0 {
		avgBusinessValue /= float64(len(profiles))
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"pipeline_stats": h.pipeline.Stats(),
		"storage_stats": map[string]int{
			"raw_documents":      documentCount,
			"extracted_entities": entityCount,
			"patient_profiles":   profileCount,
		},
		"data_quality": map[string]float64{
			"avg_entity_confidence": avgConfidence,
			"avg_business_value":    avgBusinessValue,
		},
	})
}

// parsePagination parses limit and offset query parameters, applying the
// default and maximum page sizes
func parsePagination(limitParam, offsetParam string) (int, int) {
	limit := defaultPageLimit
	if limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset := 0
	if offsetParam != "" {
		if parsed, err := strconv.Atoi(offsetParam); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps application errors to HTTP status codes
func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
