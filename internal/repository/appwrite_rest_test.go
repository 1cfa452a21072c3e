package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"qr-attendance/internal/models"
)

func TestGetCurrentIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Appwrite-Project"); got != "proj1" {
			t.Errorf("X-Appwrite-Project = %q, want proj1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"$id":"u1","email":"a@b.com","name":"A","prefs":{"isAdmin":true}}`))
	}))
	defer server.Close()

	provider := NewAppwriteRESTIdentityProvider(server.URL, "proj1", server.Client())
	identity, err := provider.GetCurrentIdentity(context.Background())
	if err != nil {
		t.Fatalf("GetCurrentIdentity() error = %v", err)
	}
	if identity.ID != "u1" || identity.Email != "a@b.com" || !identity.IsAdmin {
		t.Errorf("identity = %+v, want u1/a@b.com/admin", identity)
	}
}

func TestGetCurrentIdentitySurfacesAPIMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"User (role: guests) missing scope (account)"}`))
	}))
	defer server.Close()

	provider := NewAppwriteRESTIdentityProvider(server.URL, "proj1", server.Client())
	_, err := provider.GetCurrentIdentity(context.Background())
	if err == nil {
		t.Fatal("GetCurrentIdentity() error = nil, want API error")
	}
	if got := err.Error(); got != "User (role: guests) missing scope (account)" {
		t.Errorf("error = %q, want the API message verbatim", got)
	}
}

func TestCreateSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account/sessions/email" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"$id":"sess1"}`))
	}))
	defer server.Close()

	provider := NewAppwriteRESTIdentityProvider(server.URL, "proj1", server.Client())
	if err := provider.CreateSession(context.Background(), "a@b.com", "secret"); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if gotBody["email"] != "a@b.com" || gotBody["password"] != "secret" {
		t.Errorf("request body = %v, want credentials", gotBody)
	}
}

func TestCreateAccountGeneratesUserID(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"$id":"u2"}`))
	}))
	defer server.Close()

	provider := NewAppwriteRESTIdentityProvider(server.URL, "proj1", server.Client())
	if err := provider.CreateAccount(context.Background(), "new@b.com", "secret", "New"); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	if gotBody["userId"] == "" {
		t.Error("request missing generated userId")
	}
	if gotBody["name"] != "New" {
		t.Errorf("name = %q, want New", gotBody["name"])
	}
}

func TestServerClientSendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Appwrite-Key"); got != "server-key" {
			t.Errorf("X-Appwrite-Key = %q, want server-key", got)
		}
		w.Write([]byte(`{"total":0,"documents":[]}`))
	}))
	defer server.Close()

	repo := NewAppwriteRESTAttendanceRepository(server.URL, "proj1", "db1", "coll1", NewServerClient("server-key"))
	if _, err := repo.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
}

func TestListAllDropsInvalidDocuments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/databases/db1/collections/coll1/documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"total":3,"documents":[
			{"$id":"r1","name":"A","email":"a@b.com","date":"2024-01-02T10:00:00.000Z","timestamp":"2024-01-02T10:00:00.000Z"},
			{"$id":"r2","name":"","email":"b@b.com","date":"2024-01-02T10:05:00.000Z","timestamp":"2024-01-02T10:05:00.000Z"},
			{"$id":"r3","name":"C","email":"c@b.com","date":"","timestamp":"2024-01-02T10:10:00.000Z"}
		]}`))
	}))
	defer server.Close()

	repo := NewAppwriteRESTAttendanceRepository(server.URL, "proj1", "db1", "coll1", server.Client())
	records, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "r1" {
		t.Errorf("records = %+v, want just r1 (invalid documents dropped)", records)
	}
}

func TestCreateDocumentPayload(t *testing.T) {
	var gotBody struct {
		DocumentID string            `json:"documentId"`
		Data       map[string]string `json:"data"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"$id":"doc1"}`))
	}))
	defer server.Close()

	repo := NewAppwriteRESTAttendanceRepository(server.URL, "proj1", "db1", "coll1", server.Client())
	record := &models.AttendanceRecord{
		Name:      "A",
		Email:     "a@b.com",
		Date:      "2024-01-02T10:00:00.000Z",
		Timestamp: "2024-01-02T10:00:00.000Z",
	}
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if gotBody.DocumentID == "" {
		t.Error("request missing generated documentId")
	}
	if gotBody.Data["name"] != "A" || gotBody.Data["email"] != "a@b.com" {
		t.Errorf("data = %v, want record fields", gotBody.Data)
	}
	if record.ID != "doc1" {
		t.Errorf("record.ID = %q, want server-assigned doc1", record.ID)
	}
}

func TestCreateDocumentSurfacesAPIMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"The current user is not authorized to perform the requested action."}`))
	}))
	defer server.Close()

	repo := NewAppwriteRESTAttendanceRepository(server.URL, "proj1", "db1", "coll1", server.Client())
	record := &models.AttendanceRecord{Name: "A", Email: "a@b.com", Date: "d", Timestamp: "t"}
	err := repo.Create(context.Background(), record)
	if err == nil {
		t.Fatal("Create() error = nil, want API error")
	}
	if got := err.Error(); got != "The current user is not authorized to perform the requested action." {
		t.Errorf("error = %q, want the API message verbatim", got)
	}
}
