package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/ehr-document-pipeline/internal/domain/providers"
)

// EventStreamHandler handles Server-Sent Events for real-time pipeline
// updates. Clients receive an event whenever a document is processed or
// a profile is aggregated.
type EventStreamHandler struct {
	eventBus providers.EventBus
}

// NewEventStreamHandler creates a new event stream handler
func NewEventStreamHandler(eventBus providers.EventBus) *EventStreamHandler {
	return &EventStreamHandler{eventBus: eventBus}
}

// StreamPipelineEvents handles SSE connections for all pipeline events
// GET /api/stream/pipeline
func (h *EventStreamHandler) StreamPipelineEvents(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelDocuments, map[string]interface{}{
		"channel":   providers.EventChannelDocuments,
		"timestamp": time.Now().UTC(),
	})
}

// StreamPatientEvents handles SSE connections for patient-specific events
// GET /api/stream/patients/{id}
func (h *EventStreamHandler) StreamPatientEvents(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	if patientID == "" {
		respondWithError(w, http.StatusBadRequest, "patient ID is required")
		return
	}

	h.stream(w, r, providers.GetPatientChannel(patientID), map[string]interface{}{
		"patient_id": patientID,
		"timestamp":  time.Now().UTC(),
	})
}

func (h *EventStreamHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "event streaming is not enabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The bus detaches this client's channel when the request context
	// ends; channel-level Unsubscribe would tear down every client.
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to subscribe to channel")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe to events")
		return
	}

	sendEvent(w, "connected", hello)
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("channel", channel).Msg("client disconnected from event stream")
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now().UTC(),
			})
			flusher.Flush()
		case event, open := <-eventChan:
			if !open {
				return
			}
			if event == nil {
				continue
			}
			sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// sendEvent writes a single SSE event to the client
func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
