package auth

import (
	"encoding/json"
	"net/http"
	"time"
)

// AuthProvider is a common interface for authentication providers
type AuthProvider interface {
	LoginHandler(w http.ResponseWriter, r *http.Request)
	CallbackHandler(w http.ResponseWriter, r *http.Request)
	LogoutHandler(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
	RequireCommissioner(next http.HandlerFunc) http.HandlerFunc
}

// Register mounts the login routes and a /auth/me endpoint on mux
func Register(mux *http.ServeMux, p AuthProvider) {
	mux.HandleFunc("/auth/login", p.LoginHandler)
	mux.HandleFunc("/auth/callback", p.CallbackHandler)
	mux.HandleFunc("/auth/logout", p.LogoutHandler)
	mux.HandleFunc("/auth/me", p.Middleware(meHandler))
}

func meHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetUser(r))
}

// DevUser is the identity MockAuth signs everyone in as
var DevUser = User{
	ID:       "dev-user-123",
	Email:    "dev@hockey-draft.local",
	Name:     "Dev Commissioner",
	Username: "devuser",
	Groups:   []string{"users", DefaultCommissionerGroup},
}

// MockAuth provides a mock authentication for local development. Requests
// without a session act as DevUser.
type MockAuth struct {
	sessions *sessions
}

// NewMockAuth creates a new mock authentication handler
func NewMockAuth() *MockAuth {
	return &MockAuth{sessions: newSessions()}
}

// LoginHandler for mock auth - auto-creates a session
func (m *MockAuth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	user := DevUser
	session := m.sessions.create(&user, nil, time.Now().Add(24*time.Hour))
	setSessionCookie(w, session, false)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CallbackHandler is not needed for mock auth
func (m *MockAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LogoutHandler for mock auth
func (m *MockAuth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	m.sessions.remove(r)
	clearCookie(w, sessionCookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Middleware for mock auth
func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := DevUser
		if session, ok := m.sessions.lookup(r); ok {
			user = *session.User
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
	}
}

// RequireCommissioner for mock auth checks the dev user's groups
func (m *MockAuth) RequireCommissioner(next http.HandlerFunc) http.HandlerFunc {
	return m.Middleware(func(w http.ResponseWriter, r *http.Request) {
		if !GetUser(r).InGroup(DefaultCommissionerGroup) {
			deny(w, r, http.StatusForbidden, "commissioner access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
