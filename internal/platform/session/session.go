// Package session holds the authenticated identity for a running client.
// It is an explicit dependency handed to every service rather than ambient
// global state, so tests can run against a fake session.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the client's view of the logged-in user.
type Identity struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// Session carries the current user, the bearer token, and the
// authentication flag. It implements api.TokenSource.
type Session struct {
	mu            sync.RWMutex
	user          *Identity
	token         string
	authenticated bool
	store         TokenStore
}

// New builds a session backed by the given token store. A previously
// persisted token is loaded eagerly; the user stays unknown until a profile
// fetch fills it in.
func New(store TokenStore) *Session {
	s := &Session{store: store}
	if store != nil {
		if token, err := store.Load(); err == nil && token != "" {
			s.token = token
			s.authenticated = true
		}
	}
	return s
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the current identity, or false when it has not been loaded.
func (s *Session) User() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return Identity{}, false
	}
	return *s.user, true
}

// Login records a fresh token and identity and persists the token.
func (s *Session) Login(token string, user Identity) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.authenticated = true
	store := s.store
	s.mu.Unlock()

	if store != nil {
		return store.Save(token)
	}
	return nil
}

// SetUser fills in the identity after a profile fetch.
func (s *Session) SetUser(user Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
}

// Logout clears the session and the persisted token.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.authenticated = false
	store := s.store
	s.mu.Unlock()

	if store != nil {
		return store.Clear()
	}
	return nil
}

// TokenExpired inspects the held token's exp claim without verifying the
// signature (the backend is the verifier; the client only needs to know
// whether a re-login is required). A malformed or claim-less token is
// treated as expired.
func (s *Session) TokenExpired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return true
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Time.Before(now)
}
