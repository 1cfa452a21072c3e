// Package handlers provides HTTP handlers for API endpoints
package handlers

import (
	"encoding/json"
	"net/http"

	"qr-attendance/internal/services"
)

// AuthHandler exposes the session store over HTTP.
type AuthHandler struct {
	sessions *services.SessionStore
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(sessions *services.SessionStore) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// HandleLogin authenticates with email and password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Identity())
}

// HandleRegister creates an account and logs in with the same credentials.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sessions.Register(r.Context(), req.Email, req.Password, req.Name); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.sessions.Identity())
}

// HandleLogout terminates the session. Always succeeds locally.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.sessions.Logout(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleMe returns the current identity.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity := h.sessions.Identity()
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, identity)
}
