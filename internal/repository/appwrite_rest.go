// Package repository provides Appwrite REST API implementations
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"qr-attendance/internal/models"
)

// NewSessionClient returns an HTTP client with a cookie jar so the
// Appwrite session cookie set by CreateSession is carried on later calls.
func NewSessionClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// keyTransport authenticates every request with an Appwrite server key.
type keyTransport struct {
	key string
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Appwrite-Key", t.key)
	return http.DefaultTransport.RoundTrip(clone)
}

// NewServerClient returns an HTTP client that sends the server API key on
// every request. Scripts use this to reach collections whose permissions
// only grant access to logged-in users.
func NewServerClient(key string) *http.Client {
	return &http.Client{Transport: &keyTransport{key: key}, Timeout: 10 * time.Second}
}

// apiError extracts Appwrite's human-readable error message from a
// non-2xx response body, falling back to the HTTP status.
func apiError(resp *http.Response, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return fmt.Errorf("%s", payload.Message)
	}
	return fmt.Errorf("%s", resp.Status)
}

// AppwriteRESTIdentityProvider implements IdentityProvider
type AppwriteRESTIdentityProvider struct {
	endpoint   string
	project    string
	httpClient *http.Client
}

// NewAppwriteRESTIdentityProvider creates an identity provider client.
// Pass nil to use a fresh session-aware client.
func NewAppwriteRESTIdentityProvider(endpoint, project string, client *http.Client) *AppwriteRESTIdentityProvider {
	if client == nil {
		client = NewSessionClient()
	}
	return &AppwriteRESTIdentityProvider{
		endpoint:   strings.TrimRight(endpoint, "/"),
		project:    project,
		httpClient: client,
	}
}

func (p *AppwriteRESTIdentityProvider) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.endpoint+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Appwrite-Project", p.project)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (p *AppwriteRESTIdentityProvider) GetCurrentIdentity(ctx context.Context) (*models.Identity, error) {
	req, err := p.newRequest(ctx, http.MethodGet, "/account", nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp, data)
	}

	var account struct {
		ID    string `json:"$id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Prefs struct {
			IsAdmin bool `json:"isAdmin"`
		} `json:"prefs"`
	}
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}

	return &models.Identity{
		ID:      account.ID,
		Email:   account.Email,
		Name:    account.Name,
		IsAdmin: account.Prefs.IsAdmin,
	}, nil
}

func (p *AppwriteRESTIdentityProvider) CreateSession(ctx context.Context, email, password string) error {
	req, err := p.newRequest(ctx, http.MethodPost, "/account/sessions/email", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp, body)
	}
	return nil
}

func (p *AppwriteRESTIdentityProvider) DeleteCurrentSession(ctx context.Context) error {
	req, err := p.newRequest(ctx, http.MethodDelete, "/account/sessions/current", nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp, body)
	}
	return nil
}

func (p *AppwriteRESTIdentityProvider) CreateAccount(ctx context.Context, email, password, name string) error {
	req, err := p.newRequest(ctx, http.MethodPost, "/account", map[string]string{
		"userId":   uuid.NewString(),
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return apiError(resp, body)
	}
	return nil
}

// AppwriteRESTAttendanceRepository implements AttendanceRepository
type AppwriteRESTAttendanceRepository struct {
	endpoint     string
	project      string
	databaseID   string
	collectionID string
	httpClient   *http.Client
}

// NewAppwriteRESTAttendanceRepository creates an attendance repository over
// the fixed database/collection pair. Pass nil to use a fresh client;
// share the identity provider's client so repository calls run under the
// authenticated session.
func NewAppwriteRESTAttendanceRepository(endpoint, project, databaseID, collectionID string, client *http.Client) *AppwriteRESTAttendanceRepository {
	if client == nil {
		client = NewSessionClient()
	}
	return &AppwriteRESTAttendanceRepository{
		endpoint:     strings.TrimRight(endpoint, "/"),
		project:      project,
		databaseID:   databaseID,
		collectionID: collectionID,
		httpClient:   client,
	}
}

func (r *AppwriteRESTAttendanceRepository) documentsURL() string {
	return fmt.Sprintf("%s/databases/%s/collections/%s/documents", r.endpoint, r.databaseID, r.collectionID)
}

func (r *AppwriteRESTAttendanceRepository) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.documentsURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Appwrite-Project", r.project)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ HTTP error listing attendance: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp, body)
	}

	var result struct {
		Documents []struct {
			ID        string `json:"$id"`
			Name      string `json:"name"`
			Email     string `json:"email"`
			Date      string `json:"date"`
			Timestamp string `json:"timestamp"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	records := make([]models.AttendanceRecord, 0, len(result.Documents))
	dropped := 0
	for _, doc := range result.Documents {
		record := models.AttendanceRecord{
			ID:        doc.ID,
			Name:      doc.Name,
			Email:     doc.Email,
			Date:      doc.Date,
			Timestamp: doc.Timestamp,
		}
		if !record.Valid() {
			dropped++
			continue
		}
		records = append(records, record)
	}
	if dropped > 0 {
		log.Printf("⚠️ Dropped %d attendance documents with missing fields", dropped)
	}
	return records, nil
}

func (r *AppwriteRESTAttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	payload := map[string]any{
		"documentId": uuid.NewString(),
		"data": map[string]string{
			"name":      record.Name,
			"email":     record.Email,
			"date":      record.Date,
			"timestamp": record.Timestamp,
		},
	}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.documentsURL(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("X-Appwrite-Project", r.project)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apiError(resp, body)
	}

	var created struct {
		ID string `json:"$id"`
	}
	if err := json.Unmarshal(body, &created); err == nil {
		record.ID = created.ID
	}
	return nil
}
