package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/repositories"
)

var errInvalidState = errors.New("state must be an integer between 1 and 4")

// PatientHandler handles patient and EHR resource HTTP requests
type PatientHandler struct {
	patients     repositories.PatientRepository
	resources    repositories.ResourceRepository
	derivedFacts repositories.DerivedFactsRepository
	profiles     repositories.ProfileRepository
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(
	patients repositories.PatientRepository,
	resources repositories.ResourceRepository,
	derivedFacts repositories.DerivedFactsRepository,
	profiles repositories.ProfileRepository,
) *PatientHandler {
	return &PatientHandler{
		patients:     patients,
		resources:    resources,
		derivedFacts: derivedFacts,
		profiles:     profiles,
	}
}

// ListPatients handles GET /api/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))

	patients, total, err := h.patients.List(r.Context(), limit, offset)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"patients":    patients,
		"total_count": total,
		"has_more":    offset+len(patients) < total,
	})
}

// GetPatient handles GET /api/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	patient, err := h.patients.GetByID(r.Context(), patientID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}

// GetPatientProfile handles GET /api/patients/{id}/profile
func (h *PatientHandler) GetPatientProfile(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	profile, err := h.profiles.GetByPatient(r.Context(), patientID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GetDerivedFacts handles GET /api/patients/{id}/derived-facts
func (h *PatientHandler) GetDerivedFacts(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	facts, err := h.derivedFacts.GetByPatient(r.Context(), patientID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facts)
}

// ListPatientResources handles GET /api/patients/{id}/resources
func (h *PatientHandler) ListPatientResources(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	filter, err := parseResourceFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.PatientID = patientID

	h.listResources(w, r, filter)
}

// ListResources handles GET /api/resources
func (h *PatientHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	filter, err := parseResourceFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.listResources(w, r, filter)
}

// GetResource handles GET /api/resources/{key}
func (h *PatientHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		respondWithError(w, http.StatusBadRequest, "resource key is required")
		return
	}

	resource, err := h.resources.GetByKey(r.Context(), key)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resource)
}

func (h *PatientHandler) listResources(w http.ResponseWriter, r *http.Request, filter repositories.ResourceFilter) {
	resources, total, err := h.resources.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"resources":   resources,
		"total_count": total,
		"has_more":    filter.Offset+len(resources) < total,
	})
}

// parseResourceFilter parses resource list query parameters
func parseResourceFilter(r *http.Request) (repositories.ResourceFilter, error) {
	query := r.URL.Query()

	filter := repositories.ResourceFilter{
		PatientID:    query.Get("patient_id"),
		ResourceType: query.Get("resource_type"),
	}
	filter.Limit, filter.Offset = parsePagination(query.Get("limit"), query.Get("offset"))

	if stateParam := query.Get("state"); stateParam != "" {
		state, err := strconv.Atoi(stateParam)
		if err != nil || state < int(entities.ProcessingStateNotStarted) || state > int(entities.ProcessingStateFailed) {
			return filter, errInvalidState
		}
		filter.State = entities.ProcessingState(state)
	}

	return filter, nil
}
