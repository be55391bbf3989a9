package routes

import (
	"net/http"

	"github.com/zatekoja/ehr-document-pipeline/internal/api/handlers"
	"github.com/zatekoja/ehr-document-pipeline/internal/api/middleware"
	"github.com/zatekoja/ehr-document-pipeline/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	pipelineHandler *handlers.PipelineHandler
	patientHandler  *handlers.PatientHandler
	adminHandler    *handlers.AdminHandler

	eventStreamHandler *handlers.EventStreamHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	pipelineHandler *handlers.PipelineHandler,
	patientHandler *handlers.PatientHandler,
	adminHandler *handlers.AdminHandler,
	eventStreamHandler *handlers.EventStreamHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		pipelineHandler: pipelineHandler,
		patientHandler:  patientHandler,
		adminHandler:    adminHandler,

		eventStreamHandler: eventStreamHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Document pipeline endpoints
	r.mux.HandleFunc("POST /api/documents", r.pipelineHandler.ProcessDocument)
	r.mux.HandleFunc("GET /api/pipeline/entities", r.pipelineHandler.ListEntities)
	r.mux.HandleFunc("GET /api/pipeline/profiles", r.pipelineHandler.ListProfiles)
	r.mux.HandleFunc("GET /api/pipeline/stats", r.pipelineHandler.GetStats)

	// Patient endpoints
	r.mux.HandleFunc("GET /api/patients", r.patientHandler.ListPatients)
	r.mux.HandleFunc("GET /api/patients/{id}", r.patientHandler.GetPatient)
	r.mux.HandleFunc("GET /api/patients/{id}/profile", r.patientHandler.GetPatientProfile)
	r.mux.HandleFunc("GET /api/patients/{id}/derived-facts", r.patientHandler.GetDerivedFacts)
	r.mux.HandleFunc("GET /api/patients/{id}/resources", r.patientHandler.ListPatientResources)

	// EHR resource endpoints
	r.mux.HandleFunc("GET /api/resources", r.patientHandler.ListResources)
	r.mux.HandleFunc("GET /api/resources/{key}", r.patientHandler.GetResource)

	// Admin endpoints
	r.mux.HandleFunc("POST /api/admin/generate-data", r.adminHandler.GenerateData)

	// Event stream endpoints for real-time pipeline updates
	if r.eventStreamHandler != nil {
		r.mux.HandleFunc("GET /api/stream/pipeline", r.eventStreamHandler.StreamPipelineEvents)
		r.mux.HandleFunc("GET /api/stream/patients/{id}", r.eventStreamHandler.StreamPatientEvents)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}
