package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/ehr-document-pipeline/internal/application/services"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/repositories"
	"github.com/zatekoja/ehr-document-pipeline/pkg/config"
)

const maxGeneratedPatients = 10

// AdminHandler handles administrative requests such as synthetic
// dataset generation
type AdminHandler struct {
	generator    *services.GeneratorService
	patients     repositories.PatientRepository
	resources    repositories.ResourceRepository
	derivedFacts repositories.DerivedFactsRepository
	defaults     config.GeneratorConfig
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	generator *services.GeneratorService,
	patients repositories.PatientRepository,
	resources repositories.ResourceRepository,
	derivedFacts repositories.DerivedFactsRepository,
	defaults config.GeneratorConfig,
) *AdminHandler {
	return &AdminHandler{
		generator:    generator,
		patients:     patients,
		resources:    resources,
		derivedFacts: derivedFacts,
		defaults:     defaults,
	}
}

// GenerateDataRequest is the payload for regenerating the synthetic
// dataset. Omitted fields fall back to the configured defaults.
type GenerateDataRequest struct {
	NumPatients            int `json:"num_patients"`
	MinResourcesPerPatient int `json:"min_resources_per_patient"`
	MaxResourcesPerPatient int `json:"max_resources_per_patient"`
}

// GenerateData handles POST /api/admin/generate-data. The generated
// dataset replaces all existing patients, resources, and derived facts.
func (h *AdminHandler) GenerateData(w http.ResponseWriter, r *http.Request) {
	req := GenerateDataRequest{
		NumPatients:            h.defaults.Patients,
		MinResourcesPerPatient: h.defaults.MinResources,
		MaxResourcesPerPatient: h.defaults.MaxResources,
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if req.NumPatients < 1 || req.NumPatients > maxGeneratedPatients {
		respondWithError(w, http.StatusBadRequest, "num_patients must be between 1 and 10")
		return
	}
	if req.MinResourcesPerPatient < 1 || req.MaxResourcesPerPatient < req.MinResourcesPerPatient {
		respondWithError(w, http.StatusBadRequest, "invalid resource count range")
		return
	}

	dataset := h.generator.GenerateDataset(req.NumPatients, req.MinResourcesPerPatient, req.MaxResourcesPerPatient)

	ctx := r.Context()
	if err := h.patients.ReplaceAll(ctx, dataset.Patients); err != nil {
		respondWithServiceError(w, err)
		return
	}
	if err := h.resources.ReplaceAll(ctx, dataset.Resources); err != nil {
		respondWithServiceError(w, err)
		return
	}
	if err := h.derivedFacts.ReplaceAll(ctx, dataset.DerivedFacts); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "dataset generated",
		"patients":      len(dataset.Patients),
		"resources":     len(dataset.Resources),
		"derived_facts": len(dataset.DerivedFacts),
	})
}
