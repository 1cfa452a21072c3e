package handlers

import (
	"net/http"

	"qr-attendance/internal/services"
)

// rosterRow is one displayed attendance record with its lateness flag.
type rosterRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
	Late      bool   `json:"late"`
}

// AttendanceHandler serves the admin roster view.
type AttendanceHandler struct {
	sessions *services.SessionStore
	roster   *services.RosterService
}

// NewAttendanceHandler creates an attendance handler.
func NewAttendanceHandler(sessions *services.SessionStore, roster *services.RosterService) *AttendanceHandler {
	return &AttendanceHandler{sessions: sessions, roster: roster}
}

// HandleList refreshes the roster and returns the records for the selected
// date. Admin only. A fetch error surfaces as the store's message; an empty
// record set is a valid, non-error response.
func (h *AttendanceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.requireAdmin(w) {
		return
	}

	if err := h.roster.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	// The date choice is scoped to this request; it never mutates the
	// shared selection, so concurrent admin clients cannot affect each
	// other's responses.
	view := h.roster.ViewFor(r.URL.Query().Get("date"))
	rows := make([]rosterRow, 0, len(view.Records))
	for _, rec := range view.Records {
		rows = append(rows, rosterRow{
			ID:        rec.ID,
			Name:      rec.Name,
			Email:     rec.Email,
			Date:      rec.Date,
			Timestamp: rec.Timestamp,
			Late:      services.IsLate(rec.Timestamp),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dates":    view.Dates,
		"selected": view.Selected,
		"records":  rows,
	})
}

func (h *AttendanceHandler) requireAdmin(w http.ResponseWriter) bool {
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
