// Package services implements business logic for the application
package services

import (
	"context"
	"log"
	"sync"

	"qr-attendance/internal/models"
	"qr-attendance/internal/repository"
)

// SessionState names the three session lifecycle states.
type SessionState int

const (
	// StateUnknown is the initial state, before Restore has resolved.
	StateUnknown SessionState = iota
	// StateAuthenticated means an identity is bound to the session.
	StateAuthenticated
	// StateAnonymous means no identity is bound.
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// SessionStore holds the current authenticated identity and loading flag.
// It gates every other component: the roster and scanner are reachable only
// through an authenticated (and for admin surfaces, authorized) identity.
type SessionStore struct {
	provider   repository.IdentityProvider
	adminEmail string

	// opMu serializes the four session operations so each runs to
	// completion, including clearing the loading flag, before the next.
	opMu sync.Mutex

	mu       sync.Mutex
	identity *models.Identity
	loading  bool
}

// NewSessionStore creates a session store in the Unknown state.
func NewSessionStore(provider repository.IdentityProvider, adminEmail string) *SessionStore {
	return &SessionStore{
		provider:   provider,
		adminEmail: adminEmail,
		loading:    true,
	}
}

// Restore attempts to fetch the identity bound to an existing session.
// Provider errors are treated as "no session" and never propagate.
func (s *SessionStore) Restore(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	identity, err := s.provider.GetCurrentIdentity(ctx)
	if err != nil {
		log.Printf("No active session: %v", err)
		identity = nil
	}
	s.set(identity, false)
}

// Login creates a session for the credentials and fetches the resulting
// identity. On failure the identity stays unset and loading is cleared.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	if err := s.provider.CreateSession(ctx, email, password); err != nil {
		s.setLoading(false)
		return err
	}
	identity, err := s.provider.GetCurrentIdentity(ctx)
	if err != nil {
		s.setLoading(false)
		return err
	}
	s.set(identity, false)
	log.Printf("✅ Logged in as %s", identity.Email)
	return nil
}

// Logout terminates the session. Local state always clears, whatever the
// provider says.
func (s *SessionStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.setLoading(true)
	if err := s.provider.DeleteCurrentSession(ctx); err != nil {
		log.Printf("Logout: provider error ignored: %v", err)
	}
	s.set(nil, false)
}

// Register creates an account and logs in with the same credentials.
// Failure at either step propagates; no partial state is retained.
func (s *SessionStore) Register(ctx context.Context, email, password, name string) error {
	s.opMu.Lock()
	if err := s.provider.CreateAccount(ctx, email, password, name); err != nil {
		s.opMu.Unlock()
		return err
	}
	s.opMu.Unlock()
	return s.Login(ctx, email, password)
}

// Identity returns the current identity, or nil when anonymous.
func (s *SessionStore) Identity() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Loading reports whether a session operation is in flight.
func (s *SessionStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// State derives the session state from the loading flag and identity.
func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.loading:
		return StateUnknown
	case s.identity != nil:
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// IsAdmin re-evaluates the authorization policy for the current identity.
// The result is never cached.
func (s *SessionStore) IsAdmin() bool {
	return IsAdmin(s.Identity(), s.adminEmail)
}

func (s *SessionStore) set(identity *models.Identity, loading bool) {
	s.mu.Lock()
	s.identity = identity
	s.loading = loading
	s.mu.Unlock()
}

func (s *SessionStore) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}
