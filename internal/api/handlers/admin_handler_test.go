package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/ehr-document-pipeline/internal/api/handlers"
	"github.com/zatekoja/ehr-document-pipeline/internal/application/services"
	"github.com/zatekoja/ehr-document-pipeline/pkg/config"
)

func newAdminHandler(api *testAPI) *handlers.AdminHandler {
	return handlers.NewAdminHandler(
		services.NewGeneratorServiceWithSeed(42),
		api.patients,
		api.resources,
		api.derivedFacts,
		config.GeneratorConfig{Patients: 3, MinResources: 3, MaxResources: 6},
	)
}

type generateDataResponse struct {
	Message      string `json:"message"`
	Patients     int    `json:"patients"`
	Resources    int    `json:"resources"`
	DerivedFacts int    `json:"derived_facts"`
}

func TestAdminHandler_GenerateData(t *testing.T) {
	api := newTestAPI()
	handler := newAdminHandler(api)

	body := `{"num_patients": 2, "min_resources_per_patient": 2, "max_resources_per_patient": 3}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/generate-data", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.GenerateData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp generateDataResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Patients)
	assert.Equal(t, 2, resp.DerivedFacts)
	assert.GreaterOrEqual(t, resp.Resources, 4)
	assert.LessOrEqual(t, resp.Resources, 6)

	// Dataset is queryable through the patient endpoints afterwards
	listReq := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	listRec := httptest.NewRecorder()
	api.patientHandler.ListPatients(listRec, listReq)

	assert.Equal(t, http.StatusOK, listRec.Code)
	var listResp struct {
		TotalCount int `json:"total_count"`
	}
	assert.NoError(t, json.NewDecoder(listRec.Body).Decode(&listResp))
	assert.Equal(t, 2, listResp.TotalCount)
}

func TestAdminHandler_GenerateData_Defaults(t *testing.T) {
	api := newTestAPI()
	handler := newAdminHandler(api)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/generate-data", nil)
	rec := httptest.NewRecorder()
	handler.GenerateData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp generateDataResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Patients)
}

func TestAdminHandler_GenerateData_ReplacesExistingData(t *testing.T) {
	api := newTestAPI()
	seedPatients(t, api)
	handler := newAdminHandler(api)

	body := `{"num_patients": 1, "min_resources_per_patient": 1, "max_resources_per_patient": 1}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/generate-data", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.GenerateData(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	listRec := httptest.NewRecorder()
	api.patientHandler.ListPatients(listRec, listReq)

	var listResp struct {
		TotalCount int `json:"total_count"`
	}
	assert.NoError(t, json.NewDecoder(listRec.Body).Decode(&listResp))
	assert.Equal(t, 1, listResp.TotalCount)
}

func TestAdminHandler_GenerateData_Validation(t *testing.T) {
	api := newTestAPI()
	handler := newAdminHandler(api)

	tests := []struct {
		name string
		body string
	}{
		{"too many patients", `{"num_patients": 11}`},
		{"zero patients", `{"num_patients": 0, "min_resources_per_patient": 1, "max_resources_per_patient": 2}`},
		{"inverted resource range", `{"num_patients": 2, "min_resources_per_patient": 5, "max_resources_per_patient": 2}`},
		{"malformed json", `{"num_patients": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/generate-data", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.GenerateData(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
