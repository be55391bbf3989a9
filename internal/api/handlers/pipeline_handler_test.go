package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/ehr-document-pipeline/internal/adapters/memory"
	"github.com/zatekoja/ehr-document-pipeline/internal/api/handlers"
	"github.com/zatekoja/ehr-document-pipeline/internal/application/services"
	"github.com/zatekoja/ehr-document-pipeline/internal/domain/entities"
)

type testAPI struct {
	pipelineHandler *handlers.PipelineHandler
	patientHandler  *handlers.PatientHandler

	documents    *memory.DocumentStore
	entityStore  *memory.EntityStore
	profiles     *memory.ProfileStore
	patients     *memory.PatientStore
	resources    *memory.ResourceStore
	derivedFacts *memory.DerivedFactsStore
}

func newTestAPI() *testAPI {
	documents := memory.NewDocumentStore()
	entityStore := memory.NewEntityStore()
	profiles := memory.NewProfileStore()
	patients := memory.NewPatientStore()
	resources := memory.NewResourceStore()
	derivedFacts := memory.NewDerivedFactsStore()

	pipeline := services.NewPipelineService(
		services.NewExtractionService(),
		services.NewAggregationService(),
		services.NewTransformationLog(),
		documents,
		entityStore,
		profiles,
	)

	return &testAPI{
		pipelineHandler: handlers.NewPipelineHandler(pipeline, documents, entityStore, profiles),
		patientHandler:  handlers.NewPatientHandler(patients, resources, derivedFacts, profiles),
		documents:       documents,
		entityStore:     entityStore,
		profiles:        profiles,
		patients:        patients,
		resources:       resources,
		derivedFacts:    derivedFacts,
	}
}

type processDocumentResponse struct {
	DocumentID  string                   `json:"document_id"`
	EntityCount int                      `json:"entity_count"`
	Entities    []*entities.EntityRecord `json:"entities"`
	Profile     *entities.PatientProfile `json:"profile"`
}

func processTestDocument(t *testing.T, api *testAPI, body string) processDocumentResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(body))
	rec := httptest.NewRecorder()
	api.pipelineHandler.ProcessDocument(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp processDocumentResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestPipelineHandler_ProcessDocument(t *testing.T) {
	api := newTestAPI()

	body := `{
		"patient_id": "PT001",
		"document_type": "clinical_note",
		"content": "Patient on metformin 500 mg daily. History of type 2 diabetes and hypertension. A1C: 8.2 %",
		"demographics": {"age": 52, "sex": "female", "location": "boston"}
	}`
	resp := processTestDocument(t, api, body)

	assert.True(t, strings.HasPrefix(resp.DocumentID, "doc_PT001_"))
	assert.Equal(t, 4, resp.EntityCount)
	assert.Len(t, resp.Entities, 4)

	kinds := make([]entities.EntityKind, 0, len(resp.Entities))
	for _, record := range resp.Entities {
		assert.Equal(t, "PT001", record.PatientID)
		assert.Equal(t, resp.DocumentID, record.DocumentID)
		kinds = append(kinds, record.Entity.Kind)
	}
	assert.Equal(t, []entities.EntityKind{
		entities.EntityKindMedication,
		entities.EntityKindDiagnosis,
		entities.EntityKindDiagnosis,
		entities.EntityKindLabValue,
	}, kinds)

	assert.Equal(t, "PT001", resp.Profile.PatientID)
	assert.Equal(t, 52, resp.Profile.AgeYears)
	assert.Contains(t, resp.Profile.PrimaryConditions, "type 2 diabetes")
	assert.Contains(t, resp.Profile.CurrentMedications, "metformin 500 mg")
	assert.Equal(t, "poorly_controlled", resp.Profile.TrialEligibilityFactors["diabetes_controlled"])
	assert.Greater(t, resp.Profile.BusinessValue, 0.0)

	// Document, entities, and profile are all persisted
	count, err := api.documents.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	profile, err := api.profiles.GetByPatient(context.Background(), "PT001")
	assert.NoError(t, err)
	assert.Equal(t, resp.Profile.BusinessValue, profile.BusinessValue)
}

func TestPipelineHandler_ProcessDocument_Validation(t *testing.T) {
	api := newTestAPI()

	tests := []struct {
		name string
		body string
	}{
		{"missing patient_id", `{"content": "some note"}`},
		{"missing content", `{"patient_id": "PT001"}`},
		{"malformed json", `{"patient_id": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/documents", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			api.pipelineHandler.ProcessDocument(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPipelineHandler_ProcessDocument_DistinctIDs(t *testing.T) {
	api := newTestAPI()

	first := processTestDocument(t, api, `{"patient_id": "PT001", "content": "metformin 500 mg"}`)
	second := processTestDocument(t, api, `{"patient_id": "PT001", "content": "lisinopril 10 mg"}`)

	assert.NotEqual(t, first.DocumentID, second.DocumentID)

	count, err := api.documents.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPipelineHandler_ProcessDocument_NoMatches(t *testing.T) {
	api := newTestAPI()

	resp := processTestDocument(t, api, `{"patient_id": "PT002", "content": "Patient feels fine today."}`)

	assert.Equal(t, 0, resp.EntityCount)
	assert.NotNil(t, resp.Entities)
	assert.Empty(t, resp.Profile.PrimaryConditions)
	assert.Equal(t, 0.0, resp.Profile.BusinessValue)
}

func TestPipelineHandler_ListEntities(t *testing.T) {
	api := newTestAPI()

	first := processTestDocument(t, api, `{"patient_id": "PT001", "content": "metformin 500 mg and lisinopril 10 mg"}`)
	processTestDocument(t, api, `{"patient_id": "PT002", "content": "Diagnosed with obesity."}`)

	type listResponse struct {
		Entities   []*entities.EntityRecord `json:"entities"`
		TotalCount int                      `json:"total_count"`
	}

	t.Run("filter by document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pipeline/entities?document_id="+first.DocumentID, nil)
		rec := httptest.NewRecorder()
		api.pipelineHandler.ListEntities(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp listResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.TotalCount)
	})

	t.Run("filter by patient", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pipeline/entities?patient_id=PT002", nil)
		rec := httptest.NewRecorder()
		api.pipelineHandler.ListEntities(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp listResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.TotalCount)
		assert.Equal(t, "obesity", resp.Entities[0].Entity.Value)
	})

	t.Run("filter by entity type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pipeline/entities?entity_type=medication", nil)
		rec := httptest.NewRecorder()
		api.pipelineHandler.ListEntities(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp listResponse
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.TotalCount)
		for _, record := range resp.Entities {
			assert.Equal(t, entities.EntityKindMedication, record.Entity.Kind)
		}
	})

	t.Run("paginated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/pipeline/entities?limit=2&offset=0", nil)
		rec := httptest.NewRecorder()
		api.pipelineHandler.ListEntities(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Entities   []*entities.EntityRecord `json:"entities"`
			TotalCount int                      `json:"total_count"`
			HasMore    bool                     `json:"has_more"`
		}
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp.Entities, 2)
		assert.Equal(t, 3, resp.TotalCount)
		assert.True(t, resp.HasMore)
	})
}

func TestPipelineHandler_ListProfiles(t *testing.T) {
	api := newTestAPI()

	processTestDocument(t, api, `{"patient_id": "PT001", "content": "hypertension"}`)
	processTestDocument(t, api, `{"patient_id": "PT002", "content": "obesity"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/pipeline/profiles", nil)
	rec := httptest.NewRecorder()
	api.pipelineHandler.ListProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Profiles   []*entities.PatientProfile `json:"profiles"`
		TotalCount int                        `json:"total_count"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.TotalCount)
	assert.Len(t, resp.Profiles, 2)
}

func TestPipelineHandler_GetStats(t *testing.T) {
	api := newTestAPI()

	processTestDocument(t, api, `{"patient_id": "PT001", "content": "metformin 500 mg for type 2 diabetes"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/pipeline/stats", nil)
	rec := httptest.NewRecorder()
	api.pipelineHandler.GetStats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PipelineStats entities.PipelineStats `json:"pipeline_stats"`
		StorageStats  map[string]int         `json:"storage_stats"`
		DataQuality   map[string]float64     `json:"data_quality"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, 2, resp.PipelineStats.TotalTransformations)
	assert.Equal(t, 1, resp.PipelineStats.Stages[entities.StageBronzeToSilver])
	assert.Equal(t, 1, resp.PipelineStats.Stages[entities.StageSilverToGold])
	assert.NotNil(t, resp.PipelineStats.LastTransformation)

	assert.Equal(t, 1, resp.StorageStats["raw_documents"])
	assert.Equal(t, 2, resp.StorageStats["extracted_entities"])
	assert.Equal(t, 1, resp.StorageStats["patient_profiles"])

	// metformin extracts at 0.9, type 2 diabetes at 0.95
	assert.InDelta(t, 0.925, resp.DataQuality["avg_entity_confidence"], 0.0001)
	assert.Greater(t, resp.DataQuality["avg_business_value"], 0.0)
}
