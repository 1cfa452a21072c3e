package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"qr-attendance/internal/models"
	"qr-attendance/internal/services"
)

type rosterResponse struct {
	Dates    []string    `json:"dates"`
	Selected string      `json:"selected"`
	Records  []rosterRow `json:"records"`
}

func attendanceRecord(name, email, iso string) models.AttendanceRecord {
	return models.AttendanceRecord{ID: "r-" + name, Name: name, Email: email, Date: iso, Timestamp: iso}
}

func TestHandleListAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		identity   *models.Identity
		wantStatus int
	}{
		{"Anonymous", nil, http.StatusUnauthorized},
		{"Non-admin user", &models.Identity{ID: "u1", Email: "user@b.com"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := services.NewRosterService(&fakeAttendanceRepo{})
			handler := NewAttendanceHandler(sessionsWith(tt.identity), roster)

			req := httptest.NewRequest(http.MethodGet, "/api/attendance", nil)
			w := httptest.NewRecorder()
			handler.HandleList(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleListRoster(t *testing.T) {
	repo := &fakeAttendanceRepo{records: []models.AttendanceRecord{
		// 10:00 UTC is 18:00 Manila: late.
		attendanceRecord("A", "a@b.com", "2024-01-02T10:00:00.000Z"),
		// 00:00 UTC is 08:00 Manila: on time.
		attendanceRecord("B", "b@b.com", "2024-01-05T00:00:00.000Z"),
	}}
	sessions := sessionsWith(&models.Identity{ID: "adm", Email: "adm@b.com", IsAdmin: true})
	handler := NewAttendanceHandler(sessions, services.NewRosterService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/attendance", nil)
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var resp rosterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Dates) != 2 || resp.Dates[0] != "2024-01-05" || resp.Dates[1] != "2024-01-02" {
		t.Errorf("dates = %v, want newest first", resp.Dates)
	}
	if resp.Selected != "2024-01-05" {
		t.Errorf("selected = %q, want most recent bucket", resp.Selected)
	}
	if len(resp.Records) != 1 || resp.Records[0].Name != "B" {
		t.Fatalf("records = %+v, want just B", resp.Records)
	}
	if resp.Records[0].Late {
		t.Error("B marked late, want on time (08:00 Manila)")
	}
}

func TestHandleListDateQuery(t *testing.T) {
	repo := &fakeAttendanceRepo{records: []models.AttendanceRecord{
		attendanceRecord("A", "a@b.com", "2024-01-02T10:00:00.000Z"),
		attendanceRecord("B", "b@b.com", "2024-01-05T00:00:00.000Z"),
	}}
	sessions := sessionsWith(&models.Identity{ID: "adm", Email: "adm@b.com", IsAdmin: true})
	roster := services.NewRosterService(repo)
	handler := NewAttendanceHandler(sessions, roster)

	req := httptest.NewRequest(http.MethodGet, "/api/attendance?date=2024-01-02", nil)
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	var resp rosterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Selected != "2024-01-02" {
		t.Errorf("selected = %q, want queried date", resp.Selected)
	}
	if len(resp.Records) != 1 || resp.Records[0].Name != "A" {
		t.Fatalf("records = %+v, want just A", resp.Records)
	}
	if !resp.Records[0].Late {
		t.Error("A marked on time, want late (18:00 Manila)")
	}

	// The date parameter is request-scoped: another client's default view
	// must not inherit this request's selection.
	if got := roster.View().Selected; got != "2024-01-05" {
		t.Errorf("shared selection = %q after dated request, want default", got)
	}
}

func TestHandleListFetchError(t *testing.T) {
	repo := &fakeAttendanceRepo{listErr: errors.New("server unavailable")}
	sessions := sessionsWith(&models.Identity{ID: "adm", Email: "adm@b.com", IsAdmin: true})
	handler := NewAttendanceHandler(sessions, services.NewRosterService(repo))

	req := httptest.NewRequest(http.MethodGet, "/api/attendance", nil)
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if msg := decodeError(t, w.Body.String()); msg == "" {
		t.Error("error body missing store message")
	}
}
