package handlers

import (
	"encoding/json"
	"net/http"

	"qr-attendance/internal/services"
)

// ScanEvent mirrors one event from the QR decode engine: either decoded
// raw text or a decode error.
type ScanEvent struct {
	RawText string `json:"rawText"`
	Error   string `json:"error,omitempty"`
}

// ScanHandler feeds decode-engine events into the scan pipeline.
type ScanHandler struct {
	sessions *services.SessionStore
	pipeline *services.ScanPipeline
}

// NewScanHandler creates a scan handler.
func NewScanHandler(sessions *services.SessionStore, pipeline *services.ScanPipeline) *ScanHandler {
	return &ScanHandler{sessions: sessions, pipeline: pipeline}
}

// HandleScan processes one scan event. Admin only. The response carries the
// resulting feedback (nil on a silent cool-down drop) and the scanner
// generation the decode session must re-key to.
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireAdmin(w) {
		return
	}

	var event ScanEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if event.Error != "" {
		h.pipeline.HandleScanError(event.Error)
	} else {
		h.pipeline.HandleScan(r.Context(), event.RawText)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"feedback":   h.pipeline.Feedback(),
		"generation": h.pipeline.Generation(),
	})
}

// HandleFeedback returns the current transient feedback, if any.
func (h *ScanHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"feedback":   h.pipeline.Feedback(),
		"generation": h.pipeline.Generation(),
	})
}

func (h *ScanHandler) requireAdmin(w http.ResponseWriter) bool {
	if h.sessions.Identity() == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return false
	}
	if !h.sessions.IsAdmin() {
		writeError(w, http.StatusForbidden, "Admin access required")
		return false
	}
	return true
}
